package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/model"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/pageinsight"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/platform/errs"
	"github.com/DivyaBharathiMuthuKrishnan/SEO-analyser/internal/report"
)

const analyzeTimeout = 90 * time.Second

var errURLRequired = errors.New("the \"url\" field is required")

// Transport handles HTTP requests for page analysis.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("GET /report", t.handleReport)
	mux.Handle("GET /metrics", t.service.metrics.Handler())

	if dir := t.service.ScreenshotDir(); dir != "" {
		for _, name := range []string{pageinsight.DesktopScreenshotFile, pageinsight.MobileScreenshotFile} {
			mux.HandleFunc("GET /static/"+name, t.screenshotHandler(filepath.Join(dir, name)))
		}
	}
}

// screenshotHandler serves one screenshot file. Nothing else in the
// screenshot directory is reachable.
func (t *Transport) screenshotHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			t.renderError(w, http.StatusNotFound, "No screenshot yet. Run a rendered analysis first.")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		http.ServeFile(w, r, path)
	}
}

type analyzeRequest model.AnalyzeRequest

func (r analyzeRequest) validate() error {
	if r.URL == "" {
		return errURLRequired
	}
	switch r.Mode {
	case "", model.FetchStatic, model.FetchRendered:
		return nil
	}
	return fmt.Errorf("unsupported mode %q: use %q or %q", r.Mode, model.FetchStatic, model.FetchRendered)
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}

	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, req.URL, req.Mode)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleReport(w http.ResponseWriter, r *http.Request) {
	path := t.service.ReportPath()
	if path == "" {
		t.renderError(w, http.StatusNotFound, "Report persistence is disabled.")
		return
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		t.renderError(w, http.StatusNotFound, "No report yet. Run an analysis first.")
		return
	}
	if err != nil {
		t.logger.Error("failed to open report", "error", err, "path", path)
		t.renderError(w, http.StatusInternalServerError, "The report could not be read.")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		t.logger.Error("failed to stat report", "error", err, "path", path)
		t.renderError(w, http.StatusInternalServerError, "The report could not be read.")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	http.ServeContent(w, r, report.FileName, info.ModTime(), f)
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.Unreachable, errs.RenderFailed:
			status = http.StatusBadGateway
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.ParsingFailed, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
