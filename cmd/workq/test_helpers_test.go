package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"workq/internal/config"
)

type cliTestEnv struct {
	configPath string
	dbPath     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(base, "workq.db")
	cfg.WorkerID = "test-worker"

	configPath := filepath.Join(base, "config.toml")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("save config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, dbPath: cfg.DatabasePath}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) string {
	t.Helper()

	stdout, stderr, err := runCLI(t, env, stdin, args...)
	if err != nil {
		t.Fatalf("workq %s failed: %v (stderr %q)", strings.Join(args, " "), err, stderr)
	}
	return stdout
}
