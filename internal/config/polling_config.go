package config

import (
	"os"
	"strconv"
	"time"
)

type PollingConfig interface {
	GetMaxPollAttempts() int
	GetPollInterval() time.Duration
	GetAnalysisDays() int
	GetAnalysisThreshold() float64
}

type Polling struct{}

var _ PollingConfig = Polling{}

func (Polling) GetMaxPollAttempts() int {
	return GetIntEnv("POLL_MAX_ATTEMPTS", 6)
}

func (Polling) GetPollInterval() time.Duration {
	return GetDurationEnv("POLL_INTERVAL", 5*time.Second)
}

func (Polling) GetAnalysisDays() int {
	return GetIntEnv("ANALYSIS_DAYS", 30)
}

func (Polling) GetAnalysisThreshold() float64 {
	value := os.Getenv("ANALYSIS_THRESHOLD")
	if value == "" {
		return 0.25
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0.25
	}
	return parsed
}

func GetIntEnv(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
