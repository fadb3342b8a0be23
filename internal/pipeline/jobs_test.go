package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/scaffold/internal/materialize"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	data := []byte("root\n")
	job := NewJob("layout.txt", data)

	_, err := uuid.Parse(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "layout.txt", job.Filename)
	assert.Equal(t, digest.FromBytes(data), job.Digest)
	assert.Equal(t, StatusQueued, job.Status)
	assert.Equal(t, data, job.FileData())
	assert.NotEqual(t, job.ID, NewJob("layout.txt", data).ID)
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("a.txt", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusLoading, "loading"},
		{StatusPlanning, "planning"},
		{StatusWriting, "writing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.Snapshot().UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		snap := job.Snapshot()
		assert.Equal(t, tr.status, snap.Status)
		assert.Equal(t, tr.phase, snap.Phase)
		assert.True(t, snap.UpdatedAt.After(before), "UpdatedAt should advance after SetStatus(%q)", tr.status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("a.txt", nil)
	job.AddError("planning: empty input")
	job.AddError("second")

	snap := job.Snapshot()
	require.Len(t, snap.Errors, 2)
	assert.Equal(t, "planning: empty input", snap.Errors[0])
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	snap := NewJob("a.txt", nil).Snapshot()
	assert.NotNil(t, snap.Errors)
	assert.Empty(t, snap.Errors)
	assert.Nil(t, snap.Report)
}

func TestJob_SetReport(t *testing.T) {
	job := NewJob("a.txt", nil)
	job.SetReport(&materialize.Report{Root: "r", Dirs: 2})
	snap := job.Snapshot()
	require.NotNil(t, snap.Report)
	assert.Equal(t, 2, snap.Report.Dirs)
}

func TestJob_ReleaseFileData(t *testing.T) {
	job := NewJob("a.txt", []byte("x"))
	job.releaseFileData()
	assert.Nil(t, job.FileData())
}

func TestJobStore_PutGetDelete(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("a.txt", nil)
	store.Put(job)

	got := store.Get(job.ID)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)

	store.Delete(job.ID)
	assert.Nil(t, store.Get(job.ID))
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	assert.Nil(t, store.Get("nonexistent"))
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now().Add(-time.Second)}
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(expired)
	store.Put(fresh)

	store.Cleanup()

	assert.Nil(t, store.Get("old"), "expected expired job to be cleaned up")
	assert.NotNil(t, store.Get("new"), "expected fresh job to survive cleanup")
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
