package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Option values are applied before the environment, which wins when set.
type Option func(cfg *Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(cfg *Config) {
		cfg.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Server.WriteTimeout = timeout
	}
}

func WithStorageDriver(driver string) Option {
	return func(cfg *Config) {
		cfg.Storage.Driver = driver
	}
}
