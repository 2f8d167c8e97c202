package web

import (
	"strings"
	"testing"
	"time"
)

func TestCleanup(t *testing.T) {
	jm := NewJobManager()

	old := jm.CreateJob("/music/old", nil)
	jm.UpdateJob(old.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	jm.mu.Lock()
	past := time.Now().Add(-2 * time.Hour)
	jm.jobs[old.ID].CompletedAt = &past
	jm.mu.Unlock()
	oldUpdates := jm.Subscribe(old.ID)

	recent := jm.CreateJob("/music/recent", nil)
	jm.UpdateJob(recent.ID, func(j *Job) {
		j.Status = StatusCompleted
	})

	running := jm.CreateJob("/music/running", nil)
	jm.UpdateJob(running.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	jm.cleanup()

	if _, err := jm.GetJob(old.ID); err == nil {
		t.Error("old completed job should have been cleaned up")
	}
	if _, ok := <-oldUpdates; ok {
		t.Error("subscribers of cleaned up jobs should be closed")
	}
	if _, err := jm.GetJob(recent.ID); err != nil {
		t.Error("recent completed job should NOT have been cleaned up")
	}
	if _, err := jm.GetJob(running.ID); err != nil {
		t.Error("running job should NOT have been cleaned up")
	}
}

func TestCreateJobUniqueIDs(t *testing.T) {
	jm := NewJobManager()

	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := jm.CreateJob("/music", nil)
		if ids[job.ID] {
			t.Fatalf("duplicate job ID: %s", job.ID)
		}
		ids[job.ID] = true
	}
	if !strings.HasPrefix(jm.ListJobs()[0].ID, "job_") {
		t.Error("job IDs should start with 'job_'")
	}
}

func TestUpdateJobTimestamps(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", nil)

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})
	j, _ := jm.GetJob(job.ID)
	if j.StartedAt == nil {
		t.Error("StartedAt should be set when status changes to running")
	}

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
	})
	j, _ = jm.GetJob(job.ID)
	if j.CompletedAt == nil {
		t.Error("CompletedAt should be set when status changes to completed")
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", nil)

	jm.UpdateJob(job.ID, func(j *Job) { j.Status = StatusCancelled })
	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = "context canceled"
	})

	j, _ := jm.GetJob(job.ID)
	if j.Status != StatusCancelled {
		t.Errorf("Status = %s, want cancelled", j.Status)
	}
	if j.Error != "context canceled" {
		t.Errorf("other fields should still update, Error = %q", j.Error)
	}
}

func TestGetJobReturnsCopy(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", nil)

	j, _ := jm.GetJob(job.ID)
	j.Progress = 99

	again, _ := jm.GetJob(job.ID)
	if again.Progress != 0 {
		t.Error("mutating a returned job must not affect the stored one")
	}
}

func TestUpdateJobNotFound(t *testing.T) {
	jm := NewJobManager()
	if err := jm.UpdateJob("nonexistent", func(j *Job) {}); err == nil {
		t.Error("UpdateJob should return error for nonexistent job")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("/music", nil)

	ch := jm.Subscribe(job.ID)

	jm.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	select {
	case update := <-ch:
		if update.Status != StatusRunning {
			t.Errorf("expected status running, got %s", update.Status)
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for update")
	}

	jm.Unsubscribe(job.ID, ch)
}
