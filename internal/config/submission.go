package config

import "time"

type SubmissionConfig struct {
	// EvaluationStrategy is "exact", "whitespace" or empty for none
	EvaluationStrategy string
	HistoryLimit       int
	RankingCacheTTL    time.Duration
}

func NewSubmissionConfig() *SubmissionConfig {
	return &SubmissionConfig{
		EvaluationStrategy: getString("EVALUATION_STRATEGY", "whitespace"),
		HistoryLimit:       getInt("SUBMISSION_HISTORY_LIMIT", 100),
		RankingCacheTTL:    getMillis("RANKING_CACHE_TTL_MS", 30*time.Second),
	}
}
