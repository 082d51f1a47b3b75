package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/mathtype/engine"
	"github.com/ByLCY/mathtype/markup"
)

const (
	headerRequestID = "X-Request-ID"
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20
)

// apiError is the JSON body of every error response.
type apiError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Offset  *int   `json:"offset,omitempty"`
}

type serializeRequest struct {
	Latex string `json:"latex"`
}

type serializeResponse struct {
	Latex string `json:"latex"`
	Mode  string `json:"mode"`
}

// newRouter exposes svc over HTTP.
//
//	GET  /healthz
//	POST /v1/layout     engine.Request -> engine.Result
//	POST /v1/render     engine.Request -> application/pdf
//	POST /v1/serialize  {"latex"}      -> {"latex", "mode"}
func newRouter(svc *service) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(svc.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", func(w http.ResponseWriter, r *http.Request) {
			var req engine.Request
			if !decodeJSON(w, r, &req) {
				return
			}
			res, err := svc.layout(req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/render", func(w http.ResponseWriter, r *http.Request) {
			var req engine.Request
			if !decodeJSON(w, r, &req) {
				return
			}
			data, cached, err := svc.renderPDF(r.Context(), req)
			if err != nil {
				writeError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("X-Cache", cacheStatus(cached))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		})

		r.Post("/serialize", func(w http.ResponseWriter, r *http.Request) {
			var req serializeRequest
			if !decodeJSON(w, r, &req) {
				return
			}
			l, mode, err := svc.engine.Parse(req.Latex)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, serializeResponse{
				Latex: markup.SerializeWith(svc.engine.Symbols(), l),
				Mode:  mode.String(),
			})
		})
	})

	return r
}

// requestID tags each request with an id, reusing the caller's when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"id", r.Header.Get(headerRequestID),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Message: fmt.Sprintf("decode request: %v", err)})
		return false
	}
	return true
}

// writeError maps parse errors to 422 and everything else to 400.
func writeError(w http.ResponseWriter, err error) {
	var perr *markup.ParseError
	if errors.As(err, &perr) {
		offset := perr.Offset
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Code:    perr.Code.String(),
			Message: perr.Message,
			Offset:  &offset,
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, apiError{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}
