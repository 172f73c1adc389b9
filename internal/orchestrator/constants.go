package orchestrator

import (
	"os"
	"time"
)

var (
	// ReportSaveTimeout bounds how long a finished run waits on the report lock
	ReportSaveTimeout = getTimeoutOrDefault("SPRINT_BRANCHES_REPORT_TIMEOUT", 35*time.Second)
)

// getTimeoutOrDefault returns the duration set in envVar or the default
func getTimeoutOrDefault(envVar string, def time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	return def
}
