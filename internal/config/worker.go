package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// EnsureWorkerID returns the configured worker identity, generating and
// persisting one on first use so that successive invocations on the same
// host resolve to the same worker. The persisted id is what lets log-start
// and log-finish find the job a previous take claimed.
func EnsureWorkerID(cfg *Config, path string) (string, error) {
	if cfg.WorkerID != "" {
		return cfg.WorkerID, nil
	}

	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		host = "worker"
	}
	cfg.WorkerID = fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])

	if err := cfg.Save(path); err != nil {
		return cfg.WorkerID, fmt.Errorf("persist worker id: %w", err)
	}
	return cfg.WorkerID, nil
}
