package config

type AppConfig struct {
	DebugMode        bool
	LogLevel         string
	UseInMemory      bool
	HttpConfig       *HttpConfig
	RedisConfig      *RedisConfig
	PostgresConfig   *PostgresConfig
	JudgeConfig      *JudgeConfig
	SubmissionConfig *SubmissionConfig
}

// NewSystemConfig reads the whole configuration from the environment
func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:        getBool("DEBUG_MODE", false),
		LogLevel:         getString("LOG_LEVEL", "info"),
		UseInMemory:      getBool("USE_IN_MEMORY", false),
		HttpConfig:       NewHttpConfig(),
		RedisConfig:      NewRedisConfig(),
		PostgresConfig:   NewPostgresConfig(),
		JudgeConfig:      NewJudgeConfig(),
		SubmissionConfig: NewSubmissionConfig(),
	}
}
