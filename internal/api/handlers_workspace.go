package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/dgallion1/scaffold/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type workspaceEntry struct {
	JobID    string             `json:"job_id"`
	Status   pipeline.JobStatus `json:"status,omitempty"` // Empty once the job has expired
	Modified time.Time          `json:"modified"`
}

// handleListWorkspace lists the job output directories under the workspace.
func (s *Server) handleListWorkspace(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.orchestrator.Workspace())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "failed to list workspace: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]workspaceEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		item := workspaceEntry{JobID: e.Name()}
		if info, err := e.Info(); err == nil {
			item.Modified = info.ModTime().UTC()
		}
		if job := s.orchestrator.GetJob(e.Name()); job != nil {
			item.Status = job.Snapshot().Status
		}
		out = append(out, item)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": out})
}

// handleDeleteWorkspace removes a job's output directory and forgets the job.
func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	// Job IDs are UUIDs; anything else could name a path outside the workspace.
	if _, err := uuid.Parse(jobID); err != nil {
		jsonError(w, "invalid job id", http.StatusBadRequest)
		return
	}

	dir := pipeline.JobDir(s.orchestrator.Workspace(), jobID)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		jsonError(w, "job output not found", http.StatusNotFound)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		jsonError(w, "failed to delete job output: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.ForgetJob(jobID)
	s.log.Info("deleted job output", "job_id", jobID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"job_id": jobID, "deleted": true})
}
