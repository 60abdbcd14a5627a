// Package server exposes the statement engine over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/project-report/internal/config"
	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/output"
	"github.com/iwvelando/project-report/pkg/statements"
	"github.com/iwvelando/project-report/pkg/tax"
	"github.com/iwvelando/project-report/pkg/template"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the id logged with every request.
const RequestIDHeader = "X-Request-ID"

const defaultTemplateYears = 5

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the statements API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, now: time.Now}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/statements", h.withRequestID(h.handleStatements))
	mux.HandleFunc("/api/template", h.withRequestID(h.handleTemplate))
	mux.HandleFunc("/api/version", h.handleVersion)
	return mux
}

type statementsResponse struct {
	Result     *statements.Result `json:"result"`
	Balanced   bool               `json:"balanced"`
	CSV        string             `json:"csv"`
	Warnings   []string           `json:"warnings,omitempty"`
	Duration   string             `json:"duration"`
	ConfigYAML string             `json:"configYaml,omitempty"`
}

func (h *handler) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next(w, r)
	}
}

func (h *handler) handleStatements(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStatements"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var (
		configBytes []byte
		err         error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		configBytes, err = h.readUpload(r)
	default:
		configBytes, err = readJSONConfig(r.Body)
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runStatements(w, r, configBytes, start, op)
}

func (h *handler) readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing configuration file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readUpload"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// readJSONConfig accepts either the configuration object itself or an
// object wrapping it under "config", and re-encodes it as YAML for the loader.
func readJSONConfig(body io.Reader) ([]byte, error) {
	var payload map[string]interface{}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid config payload: expected object")
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return configBytes, nil
}

func (h *handler) runStatements(w http.ResponseWriter, r *http.Request, configBytes []byte, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	if len(cfg.Report.Years) == 0 {
		h.respondError(w, r, http.StatusBadRequest, "report has no years", op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	report, err := cfg.BuildReport(h.logger)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	logger := h.logger.With(zap.String("request_id", w.Header().Get(RequestIDHeader)))
	result := statements.NewEngine(logger, cfg.Tax).Compute(report)

	var csv bytes.Buffer
	if err := output.CsvFormat(&csv, result); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	response := statementsResponse{
		Result:     result,
		Balanced:   result.Balanced(),
		CSV:        csv.String(),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	logger.Info("statements computed",
		zap.String("op", op),
		zap.Int("years", len(result.Years)),
		zap.Bool("balanced", response.Balanced),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTemplate"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	today := h.now()
	startYear, err := intParam(q.Get("start_year"), today.Year())
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid start_year: %v", err), op)
		return
	}
	count, err := intParam(q.Get("years"), defaultTemplateYears)
	if err != nil || count <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "years must be a positive integer", op)
		return
	}

	report, err := template.NewReport(q.Get("name"), model.Sector(q.Get("sector")), model.TaxRegime(q.Get("regime")), startYear, count, today)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	scaffold := config.Configuration{
		Output: config.OutputConfig{Format: constants.OutputFormatPretty},
		Tax:    tax.DefaultPolicy(),
		Report: *report,
	}
	yamlBytes, err := yaml.Marshal(scaffold)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to encode template: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func intParam(value string, fallback int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("statements request failed",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
