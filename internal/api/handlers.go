// Package api exposes the converter over HTTP: upload a WI export zip,
// poll the job until the Camtrap-DP bundle is ready.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/redotus/camtrapflow/internal/camtrapdp"
	"github.com/redotus/camtrapflow/internal/config"
	"github.com/redotus/camtrapflow/internal/pkg/httputil"
	"github.com/redotus/camtrapflow/internal/pkg/logger"
)

// maxUploadBytes caps export uploads at 2 GiB. WI image tables get big,
// but not that big.
const maxUploadBytes = 2 << 30

// Handlers carries the server's dependencies.
type Handlers struct {
	cfg       *config.Config
	jobs      *JobStore
	publisher camtrapdp.Publisher
	uploadDir string
}

// NewHandlers builds the handler set. publisher may be nil when
// publication is disabled.
func NewHandlers(cfg *config.Config, publisher camtrapdp.Publisher) *Handlers {
	return &Handlers{
		cfg:       cfg,
		jobs:      NewJobStore(),
		publisher: publisher,
		uploadDir: os.TempDir(),
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{
		"status":  "ok",
		"service": "wi2camtrapdp",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Convert accepts a multipart upload of a WI export zip and starts an
// asynchronous conversion job. Responds 202 with the job id.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("parse upload: %v", err))
		return
	}
	file, header, err := r.FormFile("export")
	if err != nil {
		httputil.BadRequest(w, "missing 'export' file field")
		return
	}
	defer file.Close()

	job := h.jobs.Create()
	zipPath := filepath.Join(h.uploadDir, fmt.Sprintf("wiexport-%s-%s", job.ID, filepath.Base(header.Filename)))
	dst, err := os.Create(zipPath)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(zipPath)
		httputil.InternalError(w, err)
		return
	}
	dst.Close()

	opts := camtrapdp.Options{
		TimezoneHint:   h.cfg.Converter.TimezoneHint,
		MakeZip:        h.cfg.Converter.MakeZip,
		SkipValidation: !h.cfg.Converter.ShouldValidate(),
		Overwrite:      h.cfg.Converter.Overwrite,
		Publisher:      h.publisher,
	}
	if tz := r.FormValue("timezone_hint"); tz != "" {
		opts.TimezoneHint = tz
	}
	if r.FormValue("make_zip") == "true" {
		opts.MakeZip = true
	}

	go h.run(job.ID, zipPath, opts)

	httputil.Accepted(w, map[string]string{"id": job.ID, "status": string(StatusPending)})
}

// run executes one conversion and folds its outcome into the job store.
func (h *Handlers) run(jobID, zipPath string, opts camtrapdp.Options) {
	defer os.Remove(zipPath)

	opts.Log = func(level, msg string) {
		h.jobs.AppendLog(jobID, level+": "+msg)
	}
	opts.Progress = func(percent int, stage string) {
		h.jobs.Update(jobID, func(j *Job) {
			j.Progress = percent
			j.Stage = stage
		})
	}
	h.jobs.Update(jobID, func(j *Job) { j.Status = StatusRunning })

	res, err := camtrapdp.Process(context.Background(), zipPath, h.cfg.Converter.OutputDir, opts)
	now := time.Now().UTC()
	h.jobs.Update(jobID, func(j *Job) {
		j.FinishedAt = &now
		if err != nil {
			j.Status = StatusFailed
			j.Error = err.Error()
			return
		}
		j.Status = StatusDone
		j.Progress = 100
		j.WorkDir = res.WorkDir
		j.ZipPath = res.ZipPath
		j.PublishedTo = res.PublishedTo
		j.Rows = res.Rows
		j.Issues = camtrapdp.FormatIssues(res.Issues)
	})
	if err != nil {
		logger.Error("conversion failed", "job", jobID, "error", err.Error())
	} else {
		logger.Info("conversion finished", "job", jobID, "work_dir", res.WorkDir)
	}
}

// GetJob returns one job by id.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job := h.jobs.Get(chi.URLParam(r, "id"))
	if job == nil {
		httputil.NotFound(w, "no such job")
		return
	}
	httputil.OK(w, job)
}

// ListJobs returns all jobs, newest first.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.jobs.List())
}
