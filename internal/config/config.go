package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	RedisAddr         string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword     string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB           int           `mapstructure:"redis_db" yaml:"redis_db"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	SessionTTL        time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxMessageBytes:   1 << 20,
		DatabasePath:      "openroom.db",
		RedisAddr:         "127.0.0.1:6379",
		RedisPassword:     "",
		RedisDB:           0,
		JWTSecret:         "",
		JWTIssuer:         "openroom",
		SessionTTL:        30 * 24 * time.Hour,
		HistoryLimit:      100,
		LogLevel:          "info",
	}
}
