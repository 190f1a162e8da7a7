package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

// maxLoggedBody caps how much of a request or response body ends up in a log
// line.
const maxLoggedBody = 4 << 10

// redactedFields are the JSON keys this API puts credentials and tokens in:
// the login/refresh request and response pair, the stored hash, and both
// fields of the set-password payload.
var redactedFields = map[string]struct{}{
	"password":             {},
	"password_confimation": {},
	"password_hash":        {},
	"token":                {},
	"refresh":              {},
	"refresh_token":        {},
	"access_token":         {},
	"secret":               {},
	"api_key":              {},
}

var redactedHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"set-cookie":    {},
	"x-api-key":     {},
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())

			logger.Info("request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", loggableHeaders(r.Header),
				"body", requestBody(r),
			)

			rec := &statusRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "response",
				"request_id", reqID,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", rec.size,
				"body", redactBody(rec.body.Bytes()),
			)
		})
	}
}

// statusRecorder captures the status code, the full response size and a
// bounded prefix of the body for the log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
	body   *bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rec.body.Len(); room > 0 {
		if room > len(b) {
			room = len(b)
		}
		rec.body.Write(b[:room])
	}
	rec.size += len(b)
	return rec.ResponseWriter.Write(b)
}

// requestBody reads and restores the request body for logging. File uploads
// are never buffered; their size shows up on the response line.
func requestBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/") {
		return "[multipart omitted]"
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return redactBody(raw)
}

// redactBody renders a JSON body with credential fields masked. Non-JSON
// bodies are logged opaque rather than scanned.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "[unparsed body]"
	}

	out, err := json.Marshal(redactJSON(payload))
	if err != nil {
		return "[unparsed body]"
	}
	return string(out)
}

func redactJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if _, hidden := redactedFields[strings.ToLower(key)]; hidden {
				out[key] = "[REDACTED]"
				continue
			}
			out[key] = redactJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactJSON(item)
		}
		return out
	default:
		return v
	}
}

func loggableHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if _, hidden := redactedHeaders[strings.ToLower(name)]; hidden {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}
