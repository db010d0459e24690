package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"workq/internal/queue"
)

func TestInitCreatesDatabase(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout := mustRunCLI(t, env, "", "init")
	if !strings.Contains(stdout, "initialized") {
		t.Fatalf("unexpected init output %q", stdout)
	}
	if _, err := os.Stat(env.dbPath); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}

	if _, _, err := runCLI(t, env, "", "init"); err == nil {
		t.Fatal("expected second init to fail")
	}
}

func TestCreateTakeLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")

	id := strings.TrimSpace(mustRunCLI(t, env, "", "create", "-d", "JOBDATA", "-c", "1"))
	if id != "1" {
		t.Fatalf("expected task id 1, got %q", id)
	}

	listed := strings.TrimSpace(mustRunCLI(t, env, "", "list"))
	if listed != "1" {
		t.Fatalf("expected pending task 1, got %q", listed)
	}

	taken := mustRunCLI(t, env, "", "take")
	if taken != "JOBDATA" {
		t.Fatalf("expected raw task data, got %q", taken)
	}

	count := strings.TrimSpace(mustRunCLI(t, env, "", "get-count", "1"))
	if count != "0" {
		t.Fatalf("expected 0 remaining, got %q", count)
	}

	_, stderr, err := runCLI(t, env, "", "take")
	var exitErr exitStatusError
	if !errors.As(err, &exitErr) || exitErr.code != exitNoWork {
		t.Fatalf("expected exit status %d, got %v", exitNoWork, err)
	}
	if !strings.Contains(stderr, "no work available") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestCreateReadsDataFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")

	mustRunCLI(t, env, "piped payload", "create", "-c", "1")

	data := mustRunCLI(t, env, "", "get-data", "1")
	if data != "piped payload" {
		t.Fatalf("unexpected task data %q", data)
	}
}

func TestPriorityAndCountCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "low", "-c", "1")
	mustRunCLI(t, env, "", "create", "-d", "urgent", "-c", "1", "-p", "-5")

	priority := strings.TrimSpace(mustRunCLI(t, env, "", "get-priority", "2"))
	if priority != "-5" {
		t.Fatalf("expected priority -5, got %q", priority)
	}

	// Lower priority wins the next claim.
	if taken := mustRunCLI(t, env, "", "take"); taken != "urgent" {
		t.Fatalf("expected urgent first, got %q", taken)
	}

	mustRunCLI(t, env, "", "set-priority", "1", "3")
	priority = strings.TrimSpace(mustRunCLI(t, env, "", "get-priority", "1"))
	if priority != "3" {
		t.Fatalf("expected priority 3, got %q", priority)
	}

	remaining := strings.TrimSpace(mustRunCLI(t, env, "", "add-count", "1", "2"))
	if remaining != "3" {
		t.Fatalf("expected 3 remaining after add-count, got %q", remaining)
	}
}

func TestLogStartAndFinishFlow(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "payload", "-c", "1")
	mustRunCLI(t, env, "", "take")

	mustRunCLI(t, env, "", "log-start", "--", "encode", "--fast")

	running := strings.TrimSpace(mustRunCLI(t, env, "", "jobs", "--running"))
	if running != "1" {
		t.Fatalf("expected running job 1, got %q", running)
	}

	mustRunCLI(t, env, "finish output", "log-finish", "0", "--output")

	running = strings.TrimSpace(mustRunCLI(t, env, "", "jobs", "--running"))
	if running != "" {
		t.Fatalf("expected no running jobs, got %q", running)
	}

	status := mustRunCLI(t, env, "", "job", "1")
	if !strings.Contains(status, "Worker:   test-worker") {
		t.Fatalf("expected worker in status, got %q", status)
	}
	if !strings.Contains(status, "result=0") {
		t.Fatalf("expected finish result in status, got %q", status)
	}
	if !strings.Contains(status, `"encode" "--fast"`) {
		t.Fatalf("expected recorded command in status, got %q", status)
	}
}

func TestLogStartWithoutClaimFails(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")

	_, _, err := runCLI(t, env, "", "log-start")
	if !errors.Is(err, queue.ErrNoCurrentJob) {
		t.Fatalf("expected ErrNoCurrentJob, got %v", err)
	}
}

func TestTakeWithExplicitWorker(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "payload", "-c", "1")

	mustRunCLI(t, env, "", "take", "crunch-2")

	status := mustRunCLI(t, env, "", "job", "1")
	if !strings.Contains(status, "Worker:   crunch-2") {
		t.Fatalf("expected explicit worker in status, got %q", status)
	}
}

func TestDuplicateTaskDataFails(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "same", "-c", "1")

	_, _, err := runCLI(t, env, "", "create", "-d", "same", "-c", "2")
	if !errors.Is(err, queue.ErrDuplicateData) {
		t.Fatalf("expected ErrDuplicateData, got %v", err)
	}
}

func TestListVerboseWhenPiped(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "visible", "-c", "2", "-p", "1")

	// A buffer is not a terminal, so verbose output is tab-separated.
	stdout := mustRunCLI(t, env, "", "list", "-v")
	if !strings.Contains(stdout, "1\t2\t1\tvisible") {
		t.Fatalf("unexpected verbose listing %q", stdout)
	}
}

func TestMonitorRunsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "payload", "-c", "1")
	mustRunCLI(t, env, "", "take")

	mustRunCLI(t, env, "", "monitor", "--", "true")

	status := mustRunCLI(t, env, "", "job", "1")
	if !strings.Contains(status, "result=0") {
		t.Fatalf("expected clean finish in status, got %q", status)
	}
}

func TestMonitorPropagatesExitStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")
	mustRunCLI(t, env, "", "create", "-d", "payload", "-c", "1")
	mustRunCLI(t, env, "", "take")

	_, _, err := runCLI(t, env, "", "monitor", "--", "sh", "-c", "exit 3")
	var exitErr exitStatusError
	if !errors.As(err, &exitErr) || exitErr.code != 3 {
		t.Fatalf("expected exit status 3, got %v", err)
	}

	status := mustRunCLI(t, env, "", "job", "1")
	if !strings.Contains(status, "result=3") {
		t.Fatalf("expected result 3 in status, got %q", status)
	}
}

func TestMonitorRequiresCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "", "init")

	if _, _, err := runCLI(t, env, "", "monitor"); err == nil {
		t.Fatal("expected an error when no command is given")
	}
}
