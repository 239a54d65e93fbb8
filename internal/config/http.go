package config

import "time"

type HttpConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

func NewHttpConfig() *HttpConfig {
	return &HttpConfig{
		Port:            getInt("HTTP_PORT", 8082),
		ShutdownTimeout: getMillis("HTTP_SHUTDOWN_TIMEOUT_MS", 10*time.Second),
	}
}
