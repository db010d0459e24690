package monitor_test

import (
	"context"
	"errors"
	"testing"

	"workq/internal/execresult"
	"workq/internal/monitor"
	"workq/internal/queue"
	"workq/internal/testsupport"
)

func claimedStore(t *testing.T, worker string) (*queue.Store, int64) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustCreateStore(t, cfg)
	testsupport.MustDefineTask(t, store, "payload", 1, nil)

	job, err := store.Claim(context.Background(), worker)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if job == nil {
		t.Fatal("expected a claimable job")
	}
	return store, job.ID
}

func TestRunRecordsStartAndFinish(t *testing.T) {
	store, jobID := claimedStore(t, "w")
	supervisor := monitor.New(store, nil)

	code, err := supervisor.Run(context.Background(), "w", []string{"true"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit status 0, got %d", code)
	}

	status, err := store.JobStatus(context.Background(), jobID)
	if err != nil {
		t.Fatalf("JobStatus failed: %v", err)
	}
	if status.Start == nil {
		t.Fatal("expected a start event")
	}
	if len(status.Start.Command) != 1 || string(status.Start.Command[0]) != "true" {
		t.Fatalf("unexpected recorded command: %v", status.Start.Command)
	}
	if status.Finish == nil || status.Finish.Result != 0 {
		t.Fatalf("unexpected finish event: %+v", status.Finish)
	}
}

func TestRunReportsNonZeroExit(t *testing.T) {
	store, jobID := claimedStore(t, "w")
	supervisor := monitor.New(store, nil)

	code, err := supervisor.Run(context.Background(), "w", []string{"sh", "-c", "exit 3"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit status 3, got %d", code)
	}

	status, err := store.JobStatus(context.Background(), jobID)
	if err != nil {
		t.Fatalf("JobStatus failed: %v", err)
	}
	if status.Finish == nil || status.Finish.Result != 3 {
		t.Fatalf("unexpected finish event: %+v", status.Finish)
	}
}

func TestRunRecordsStartFailure(t *testing.T) {
	store, jobID := claimedStore(t, "w")
	supervisor := monitor.New(store, nil)

	code, err := supervisor.Run(context.Background(), "w", []string{"/nonexistent/workq-test-binary"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != -1 {
		t.Fatalf("expected shell code -1, got %d", code)
	}

	status, err := store.JobStatus(context.Background(), jobID)
	if err != nil {
		t.Fatalf("JobStatus failed: %v", err)
	}
	if status.Finish == nil || status.Finish.Result != execresult.StartFailureCode {
		t.Fatalf("unexpected finish event: %+v", status.Finish)
	}
}

func TestRunWithoutClaimFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustCreateStore(t, cfg)
	supervisor := monitor.New(store, nil)

	_, err := supervisor.Run(context.Background(), "idle", []string{"true"})
	if !errors.Is(err, queue.ErrNoCurrentJob) {
		t.Fatalf("expected ErrNoCurrentJob, got %v", err)
	}
}

func TestRunRequiresCommand(t *testing.T) {
	store, _ := claimedStore(t, "w")
	supervisor := monitor.New(store, nil)

	if _, err := supervisor.Run(context.Background(), "w", nil); err == nil {
		t.Fatal("expected an error for an empty command")
	}
}
