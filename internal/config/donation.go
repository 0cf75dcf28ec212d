package config

import (
	"time"
)

type DonationConfig struct {
	Currency       string        `yaml:"currency"`
	MaxQuantity    int           `yaml:"max_quantity"`
	MaxAmount      float64       `yaml:"max_amount"`
	RetryAttempts  int           `yaml:"retry_attempts"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	HistoryLimit   int           `yaml:"history_limit"`
	BrowseLimit    int           `yaml:"browse_limit"`
}

type JobsConfig struct {
	ReconcileEnabled  bool   `yaml:"reconcile_enabled"`
	ReconcileSchedule string `yaml:"reconcile_schedule"`
}

func loadDonationConfig() *DonationConfig {
	return &DonationConfig{
		Currency:       getEnv("APP_CURRENCY", "TRY"),
		MaxQuantity:    getEnvAsInt("DONATION_MAX_QUANTITY", 5),
		MaxAmount:      getEnvAsFloat("DONATION_MAX_AMOUNT", 100000),
		RetryAttempts:  getEnvAsInt("DONATION_RETRY_ATTEMPTS", 3),
		RetryBaseDelay: getEnvAsDuration("DONATION_RETRY_BASE_DELAY", 20*time.Millisecond),
		HistoryLimit:   getEnvAsInt("WALLET_HISTORY_LIMIT", 20),
		BrowseLimit:    getEnvAsInt("BROWSE_LIMIT", 50),
	}
}

func loadJobsConfig() *JobsConfig {
	return &JobsConfig{
		ReconcileEnabled:  getEnvAsBool("RECONCILE_ENABLED", true),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 1h"),
	}
}
