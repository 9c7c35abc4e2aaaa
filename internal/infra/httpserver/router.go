package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appdocs "github.com/bryanwahyu/docproc-api/internal/application/documents"
	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
	"github.com/bryanwahyu/docproc-api/internal/middleware"
)

// DefaultMaxBodyBytes matches the 10mb JSON limit of the previous API.
const DefaultMaxBodyBytes int64 = 10 << 20

// Options configures the plumbing around the document routes.
type Options struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
	APIKeys        map[string]string
	Limiter        *middleware.RateLimiter
	Checkers       map[string]middleware.HealthChecker
	Logger         *slog.Logger
}

type Router struct {
	docs         *appdocs.Service
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewRouter(docs *appdocs.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := &Router{docs: docs, logger: opts.Logger, maxBodyBytes: opts.MaxBodyBytes}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	mux.Use(middleware.RateLimit(opts.Limiter))

	mux.Get("/health", middleware.StaticHealthHandler(domain.APIName))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler(opts.Checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.With(chimw.AllowContentType("application/json")).
		Post("/process", r.wrap(r.handleProcess))

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/documents/latest", r.wrap(r.handleLatest))
		rt.Get("/documents/{hash}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
	})

	return mux
}

// statusError carries a transport status chosen by the handler itself.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var se *statusError
		switch {
		case errors.As(err, &se):
			http.Error(w, se.msg, se.code)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrAuditDisabled):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			r.logger.Error("request failed",
				"path", req.URL.Path,
				"request_id", chimw.GetReqID(req.Context()),
				"error", err,
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// POST /process
// Body: {"document_text": "<string>"}
// Empty text is answered with 200 and status "error".
func (r *Router) handleProcess(w http.ResponseWriter, req *http.Request) error {
	text, err := r.decodeDocumentText(w, req)
	if err != nil {
		return err
	}

	cmd := appdocs.ProcessCommand{
		DocumentText: text,
		Client:       middleware.GetClientFromContext(req.Context()),
	}
	res := r.docs.Process(req.Context(), cmd)

	middleware.ObserveDocument(
		res.Status == domain.StatusError,
		res.ComplexityScore == domain.ComplexityComplex,
	)
	// audit jalan di background, response tidak menunggu
	r.docs.RecordInBackground(cmd, res)

	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/documents/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ParseIntParam("limit", req.URL.Query().Get("limit"))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	list, err := r.docs.Latest(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/documents/{hash}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	rec, err := r.docs.Get(req.Context(), chi.URLParam(req, "hash"))
	if err != nil {
		return err
	}
	if rec == nil {
		return sql.ErrNoRows
	}
	return writeJSON(w, http.StatusOK, rec)
}

// GET /v1/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	days, err := middleware.ParseIntParam("days", req.URL.Query().Get("days"))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	summary, err := r.docs.Summary(req.Context(), middleware.ValidateDays(days))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, summary)
}

// decodeDocumentText reads {"document_text": "..."} strictly: the body must be
// valid UTF-8, hold exactly one JSON value, and name the field in lower case.
func (r *Router) decodeDocumentText(w http.ResponseWriter, req *http.Request) (string, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.maxBodyBytes))
	if err != nil {
		return "", decodeError(err)
	}
	if !utf8.Valid(raw) {
		return "", &statusError{code: http.StatusBadRequest, msg: "request body is not valid UTF-8"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return "", decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "", &statusError{code: http.StatusBadRequest, msg: "invalid JSON body: trailing data after object"}
	}

	value, ok := fields["document_text"]
	if !ok || string(value) == "null" {
		return "", &statusError{code: http.StatusUnprocessableEntity, msg: "missing field document_text"}
	}
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return "", &statusError{code: http.StatusUnprocessableEntity, msg: "field document_text must be a string"}
	}
	return text, nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxErr):
		return &statusError{
			code: http.StatusRequestEntityTooLarge,
			msg:  fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
		}
	case errors.As(err, &typeErr):
		return &statusError{
			code: http.StatusUnprocessableEntity,
			msg:  fmt.Sprintf("field %s must be a %s", typeErr.Field, typeErr.Type),
		}
	case errors.Is(err, io.EOF):
		return &statusError{code: http.StatusBadRequest, msg: "empty request body"}
	default:
		return &statusError{code: http.StatusBadRequest, msg: "invalid JSON body: " + err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
