package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/domrows/internal/pipeline"
	"github.com/dgallion1/domrows/internal/render"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/tabular"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubmitJobs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), uploadErrorStatus(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	format := r.FormValue("format")
	if _, err := tabular.ForFormat(format); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	output := r.FormValue("output")
	if output == "" {
		output = s.cfg.OutputMode
	}
	if _, err := render.ParseMode(output); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	save := r.FormValue("save") == "true"

	var results []map[string]any
	queueFull := false
	accepted := 0
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !source.IsSupportedExtension(filename) && !tabular.IsRowSetFile(filename) {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "failed to open file",
			})
			continue
		}

		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    "file too large or read error",
			})
			continue
		}

		job := pipeline.NewJob(pipeline.DirectionFor(filename), filename, data)
		job.Format = format
		job.Output = output
		if save && job.Direction == pipeline.DirectionLinearize {
			job.SaveAs = strings.TrimSuffix(filename, filepath.Ext(filename))
		}

		if err := s.orchestrator.Submit(job); err != nil {
			if errors.Is(err, pipeline.ErrQueueFull) {
				queueFull = true
			}
			results = append(results, map[string]any{
				"filename": filename,
				"job_id":   job.ID,
				"error":    err.Error(),
			})
			continue
		}

		accepted++
		results = append(results, map[string]any{
			"filename":   filename,
			"job_id":     job.ID,
			"direction":  job.Direction,
			"status":     job.Snapshot().Status,
			"poll_url":   fmt.Sprintf("/api/jobs/%s", job.ID),
			"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
		})
	}

	code := http.StatusAccepted
	if queueFull && accepted == 0 {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	data, contentType, ok := job.Result()
	if !ok {
		jsonError(w, fmt.Sprintf("job is %s", job.Snapshot().Status), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
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
