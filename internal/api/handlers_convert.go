package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/render"
	"github.com/dgallion1/domrows/internal/source"
	"github.com/dgallion1/domrows/internal/tabular"
)

// upload is a single file read from a request.
type upload struct {
	filename string
	data     []byte
}

// readUpload reads the "file" part of a multipart form, or the raw request
// body when the request is not multipart. Raw bodies are named by the
// "filename" query parameter, falling back to defaultName.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, defaultName string) (*upload, int, error) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, uploadErrorStatus(err), fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		return s.readLimited(file, sanitizeFilename(header.Filename))
	}

	name := defaultName
	if q := r.URL.Query().Get("filename"); q != "" {
		name = sanitizeFilename(q)
	}
	return s.readLimited(r.Body, name)
}

func (s *Server) readLimited(rd io.Reader, filename string) (*upload, int, error) {
	data, err := io.ReadAll(io.LimitReader(rd, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, uploadErrorStatus(err), fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return &upload{filename: filename, data: data}, 0, nil
}

func uploadErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (s *Server) handleLinearize(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if _, err := tabular.ForFormat(format); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	up, code, err := s.readUpload(w, r, "upload.html")
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}
	if !source.IsSupportedExtension(up.filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(up.filename)), http.StatusBadRequest)
		return
	}

	rows, err := s.conv.Linearize(bytes.NewReader(up.data), up.filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if name := r.URL.Query().Get("save"); name != "" {
		if err := s.store.Save(r.Context(), name, rows); err != nil {
			s.log.Error("save row set failed", "name", name, "error", err)
			jsonError(w, "failed to save row set: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	out, contentType, err := convert.EncodeRows(rows, format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Row-Count", strconv.Itoa(len(rows)))
	w.Write(out)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	mode, err := s.outputMode(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	up, code, err := s.readUpload(w, r, "upload.csv")
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}
	if !tabular.IsRowSetFile(up.filename) {
		jsonError(w, fmt.Sprintf("unsupported row-set type: %s", filepath.Ext(up.filename)), http.StatusBadRequest)
		return
	}

	out, err := s.conv.Build(bytes.NewReader(up.data), up.filename, mode)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeHTML(w, out)
}

// outputMode reads the "output" query parameter, defaulting to the
// configured mode.
func (s *Server) outputMode(r *http.Request) (render.Mode, error) {
	if v := r.URL.Query().Get("output"); v != "" {
		return render.ParseMode(v)
	}
	return render.ParseMode(s.cfg.OutputMode)
}

func writeHTML(w http.ResponseWriter, out []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}
