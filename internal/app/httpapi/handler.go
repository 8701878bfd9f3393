// Package httpapi exposes the REST API over the application services.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/profitlens/profitlens/internal/app"
	"github.com/profitlens/profitlens/internal/app/metrics"
	"github.com/profitlens/profitlens/internal/app/services/analysis"
	"github.com/profitlens/profitlens/pkg/logger"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app   *app.Application
	audit *auditLog
	log   *logger.Logger
}

// NewHandler returns a router exposing the core REST API. auditPath, when not
// empty, names a JSONL file that authenticated requests are appended to.
func NewHandler(application *app.Application, auditPath string, log *logger.Logger) (http.Handler, error) {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}

	sink, err := newFileAuditSink(auditPath)
	if err != nil {
		return nil, err
	}

	h := &handler{
		app:   application,
		audit: newAuditLog(0, sink),
		log:   log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(h.requireSession)
	protected.HandleFunc("/analyze", h.analyze).Methods(http.MethodPost)
	protected.HandleFunc("/records", h.records).Methods(http.MethodGet)
	protected.HandleFunc("/audit", h.auditEntries).Methods(http.MethodGet)

	return r, nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := h.app.Auth.VerifyCredentials(r.Context(), payload.Username, payload.Password)
	if err != nil {
		// Unknown usernames and wrong passwords are indistinguishable here.
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.app.Auth.IssueSession(u)
	if err != nil {
		h.log.WithError(err).Error("issue session")
		writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u.Public(),
	})
}

// figure tolerates non-numeric submissions, coercing them to zero. Absence is
// represented by a nil pointer at the payload level.
type figure float64

func (f *figure) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = figure(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = figure(parsed)
			return nil
		}
	}
	*f = 0
	return nil
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var payload struct {
		Period   string  `json:"period"`
		Revenue  *figure `json:"revenue"`
		COGS     *figure `json:"cogs"`
		Expenses *figure `json:"expenses"`
		Taxes    *figure `json:"taxes"`
		Currency string  `json:"currency"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.app.Analysis.Analyze(r.Context(), claims.UserID, analysis.Input{
		Period:   payload.Period,
		Revenue:  figureValue(payload.Revenue),
		COGS:     figureValue(payload.COGS),
		Expenses: figureValue(payload.Expenses),
		Taxes:    figureValue(payload.Taxes),
		Currency: payload.Currency,
	})
	if err != nil {
		h.log.WithError(err).Error("analyze request failed")
		writeServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *handler) records(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing session")
		return
	}

	recs, err := h.app.Analysis.ListRecords(r.Context(), claims.UserID)
	if err != nil {
		h.log.WithError(err).Error("list records failed")
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *handler) auditEntries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	writeJSON(w, http.StatusOK, h.audit.listLimit(limit))
}

func figureValue(f *figure) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServerError reports an internal failure with detail for operability.
// The detail carries store or wiring errors only; secrets and credential
// hashes never reach an error value.
func writeServerError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "server error",
		"details": err.Error(),
	})
}
