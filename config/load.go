package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "WINE"

var defaults = map[string]any{
	"env": "local",

	"database.host":            "localhost",
	"database.port":            "3306",
	"database.database":        "wine",
	"database.user":            "wine",
	"database.password":        "",
	"database.loglevel":        "error",
	"database.maxidleconns":    10,
	"database.maxopenconns":    50,
	"database.connmaxlifetime": time.Hour,

	"apiserver.host":         "",
	"apiserver.port":         "8080",
	"apiserver.cert":         "",
	"apiserver.key":          "",
	"apiserver.alloworigins": []string{"*"},
	"apiserver.defaultlimit": 50,
	"apiserver.maxlimit":     200,
	"apiserver.readtimeout":  10 * time.Second,
	"apiserver.writetimeout": 10 * time.Second,

	"auth.tokensecret":            "change-me",
	"auth.accesstoken.name":       "access_token",
	"auth.accesstoken.expiration": 24 * time.Hour,

	"redis.addr":    "",
	"redis.lockttl": 10 * time.Second,

	"kafka.addr":     "",
	"kafka.clientid": "wine-review",

	"log.level": "info",

	"review.notificationtopic": "price_review",
	"review.resyncconcurrency": 8,
}

// Load reads the configuration from the TOML file at path (optional) and WINE_* environment
// variables, e.g. WINE_DATABASE_HOST overrides database.host.
func Load(path string) (Configs, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Configs{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Configs
	if err := v.Unmarshal(&cfg); err != nil {
		return Configs{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ApiServer.DefaultLimit <= 0 || cfg.ApiServer.MaxLimit < cfg.ApiServer.DefaultLimit {
		return Configs{}, fmt.Errorf("invalid list limits: default=%d max=%d",
			cfg.ApiServer.DefaultLimit, cfg.ApiServer.MaxLimit)
	}

	return cfg, nil
}
