package config

import "time"

type JudgeConfig struct {
	UseMock        bool
	ApiUrl         string
	ApiKey         string
	RequestTimeout time.Duration
	MaxRetries     int
	Concurrency    int
}

func NewJudgeConfig() *JudgeConfig {
	return &JudgeConfig{
		UseMock:        getBool("USE_JUDGE0_MOCK", false),
		ApiUrl:         getString("JUDGE0_API_URL", ""),
		ApiKey:         getString("JUDGE0_API_KEY", ""),
		RequestTimeout: getMillis("JUDGE0_REQUEST_TIMEOUT_MS", 8000*time.Millisecond),
		MaxRetries:     getInt("JUDGE0_MAX_RETRIES", 1),
		Concurrency:    getInt("JUDGE0_CONCURRENCY", 1),
	}
}

// Mocked reports whether the offline judge should be used
func (c *JudgeConfig) Mocked() bool {
	return c.UseMock || c.ApiUrl == ""
}
