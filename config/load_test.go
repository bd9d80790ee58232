package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.ApiServer.Port)
	require.Equal(t, 50, cfg.ApiServer.DefaultLimit)
	require.Equal(t, 200, cfg.ApiServer.MaxLimit)
	require.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	require.Equal(t, "price_review", cfg.Review.NotificationTopic)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
env = "prod"

[database]
host = "db.internal"
port = "3307"

[apiserver]
port = "9000"
defaultlimit = 20
maxlimit = 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("WINE_DATABASE_USER", "reviewer")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "reviewer", cfg.Database.User)
	require.Equal(t, "9000", cfg.ApiServer.Port)
	require.Equal(t, 20, cfg.ApiServer.DefaultLimit)
	require.Equal(t,
		"reviewer:@tcp(db.internal:3307)/wine?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.Database.ConnectionString())
}

func TestLoad_InvalidLimits(t *testing.T) {
	t.Setenv("WINE_APISERVER_MAXLIMIT", "10")

	_, err := Load("")
	require.Error(t, err)
}
