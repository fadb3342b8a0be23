package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/scaffold/internal/materialize"
	"github.com/dgallion1/scaffold/internal/scaffold"
	"github.com/dgallion1/scaffold/internal/source"
	"golang.org/x/sync/errgroup"
)

// planFile is one file of a plan as returned by the API.
type planFile struct {
	Path    string `json:"path"`
	Matched bool   `json:"matched"`
	Source  string `json:"source,omitempty"`
	Size    int    `json:"size"`
}

// planResponse is the JSON view of a scaffold plan. Paths are relative and
// start with the root name.
type planResponse struct {
	Filename string             `json:"filename"`
	Root     string             `json:"root"`
	Dirs     []string           `json:"dirs"`
	Files    []planFile         `json:"files"`
	Blocks   int                `json:"blocks"`
	Warnings []scaffold.Warning `json:"warnings"`
}

func newPlanResponse(filename string, plan *scaffold.Plan) planResponse {
	resp := planResponse{
		Filename: filename,
		Root:     plan.Root,
		Dirs:     make([]string, 0, len(plan.Dirs)),
		Files:    make([]planFile, 0, len(plan.Files)),
		Blocks:   plan.Blocks,
		Warnings: plan.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []scaffold.Warning{}
	}
	for _, d := range plan.Dirs {
		resp.Dirs = append(resp.Dirs, d.Rel)
	}
	for _, f := range plan.Files {
		resp.Files = append(resp.Files, planFile{
			Path:    f.Rel,
			Matched: f.Matched,
			Source:  f.Source,
			Size:    len(f.Content),
		})
	}
	return resp
}

// uploadError carries the HTTP status an upload problem maps to.
type uploadError struct {
	status int
	msg    string
}

func (e *uploadError) Error() string { return e.msg }

// readUpload validates and reads one uploaded document.
func (s *Server) readUpload(fh *multipart.FileHeader) (string, []byte, error) {
	filename := sanitizeFilename(fh.Filename)
	if !source.IsSupportedExtension(filename) {
		return filename, nil, &uploadError{http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))}
	}
	f, err := fh.Open()
	if err != nil {
		return filename, nil, &uploadError{http.StatusBadRequest, "failed to open file"}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return filename, nil, &uploadError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return filename, nil, &uploadError{http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)}
	}
	return filename, data, nil
}

// formFile parses a single-file multipart upload under the "file" field.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}
	defer r.MultipartForm.RemoveAll()

	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return "", nil, false
	}
	filename, data, err := s.readUpload(fhs[0])
	if err != nil {
		writeUploadError(w, err)
		return "", nil, false
	}
	return filename, data, true
}

// planDocument reads raw upload bytes with the matching source and builds a
// plan rooted at base.
func (s *Server) planDocument(filename string, data []byte, base string) (*scaffold.Plan, error) {
	src, err := source.ForFile(filename, s.srcOpts)
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, err.Error()}
	}
	lines, err := src.Read(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scaffold.ErrInputUnreadable, err)
	}
	return scaffold.BuildPlan(lines, base)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.formFile(w, r)
	if !ok {
		return
	}
	plan, err := s.planDocument(filename, data, "")
	if err != nil {
		writePlanError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newPlanResponse(filename, plan))
}

// batchResult is either a plan or an error for one uploaded document.
type batchResult struct {
	Filename string        `json:"filename"`
	Plan     *planResponse `json:"plan,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (s *Server) handleBatchPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	// Each document is independent; a failing one does not cancel the rest.
	results := make([]batchResult, len(files))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(max(s.cfg.WorkerCount, 1))
	for i, fh := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			filename, data, err := s.readUpload(fh)
			results[i].Filename = filename
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			plan, err := s.planDocument(filename, data, "")
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			resp := newPlanResponse(filename, plan)
			results[i].Plan = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		jsonError(w, "batch canceled: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"plans": results})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.formFile(w, r)
	if !ok {
		return
	}
	plan, err := s.planDocument(filename, data, "")
	if err != nil {
		writePlanError(w, err)
		return
	}

	// Buffer the archive so a failure can still be reported as JSON.
	var buf bytes.Buffer
	ar, err := materialize.NewArchive(&buf)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rep, err := materialize.Apply(r.Context(), plan, ar)
	if cerr := ar.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("archive failed", "filename", filename, "error", err)
		jsonError(w, "archive failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("archive built", "filename", filename, "root", rep.Root, "dirs", rep.Dirs, "files", len(rep.Files))

	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(plan.Root)+".tar.zst"))
	w.Write(buf.Bytes())
}

// writePlanError maps document errors to status codes: a document that
// cannot be read or has no usable root is unprocessable.
func writePlanError(w http.ResponseWriter, err error) {
	var ue *uploadError
	switch {
	case errors.As(err, &ue):
		writeUploadError(w, err)
	case errors.Is(err, scaffold.ErrInputUnreadable),
		errors.Is(err, scaffold.ErrEmptyInput),
		errors.Is(err, scaffold.ErrMissingRootName):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *uploadError
	if errors.As(err, &ue) {
		jsonError(w, ue.msg, ue.status)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
