package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer APIServerConfigs
	Auth      AuthConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Log       LogConfigs
	Review    ReviewConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs `mapstructure:",squash"`

	AllowOrigins []string
	DefaultLimit int
	MaxLimit     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	// Addr is empty when no Redis is deployed; submission locks then rely on the database
	// row lock only.
	Addr    string
	LockTTL time.Duration
}

type KafkaConfigs struct {
	// Addr is empty when review notifications are disabled.
	Addr     string
	ClientID string
}

type LogConfigs struct {
	Level string
}

type ReviewConfigs struct {
	NotificationTopic string
	ResyncConcurrency int
}
