// ABOUTME: Failure envelope middleware guaranteeing a single well-formed JSON error body
// ABOUTME: Buffers handler output and rescues panics into a canonical 500 response

package httpapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/nutrivia/coach-gateway/internal/apperr"
	"github.com/nutrivia/coach-gateway/internal/metrics"
)

// errorBody is the stable error shape every failing response carries.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// bufferedWriter captures everything a handler writes so the envelope can
// inspect or discard it before anything reaches the wire.
type bufferedWriter struct {
	header http.Header
	buf    bytes.Buffer
	status int
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) { b.status = status }

func (b *bufferedWriter) Write(p []byte) (int, error) { return b.buf.Write(p) }

// FailureEnvelope wraps a handler so that every response leaving the server
// is either the handler's own successful output or exactly one canonical
// {"message","code"} JSON error body. A panicking handler yields a 500
// envelope; whatever partial output it produced is discarded. Faulty error
// bodies on 4xx/5xx responses are substituted the same way.
func FailureEnvelope(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bw := newBufferedWriter()

			func() {
				defer func() {
					if rec := recover(); rec != nil {
						logger.Error("request handler panicked",
							"method", r.Method,
							"path", r.URL.Path,
							"panic", rec,
							"stack", string(debug.Stack()))
						metrics.RequestPanicsTotal.Inc()
						bw.buf.Reset()
						bw.header = make(http.Header)
						bw.status = http.StatusInternalServerError
					}
				}()
				next.ServeHTTP(bw, r)
			}()

			if bw.status >= 400 && !isErrorEnvelope(bw.buf.Bytes()) {
				writeEnvelope(w, bw.status, errorBody{
					Message: http.StatusText(bw.status),
					Code:    codeForStatus(bw.status),
				})
				return
			}

			for k, vs := range bw.header {
				for _, v := range vs {
					w.Header().Add(k, v)
				}
			}
			w.WriteHeader(bw.status)
			_, _ = w.Write(bw.buf.Bytes())
		})
	}
}

// isErrorEnvelope reports whether the body already carries the canonical
// error shape with both fields populated.
func isErrorEnvelope(body []byte) bool {
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	return e.Message != "" && e.Code != ""
}

func writeEnvelope(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// codeForStatus picks a machine code for a response that reached the client
// without one. Handlers normally attach their own.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperr.CodeValidation
	case http.StatusUnauthorized:
		return apperr.CodeInvalidToken
	case http.StatusForbidden:
		return apperr.CodePermissionDenied
	case http.StatusNotFound:
		return apperr.CodeNotFound
	case http.StatusMethodNotAllowed:
		return apperr.CodeMethodNotAllowed
	case http.StatusServiceUnavailable:
		return apperr.CodeStoreUnavailable
	default:
		return apperr.CodeInternal
	}
}
