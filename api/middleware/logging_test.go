package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"feedfinder-api/core/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	mu   sync.Mutex
	logs []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func (m *MockLogger) add(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) { m.add("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields map[string]interface{})  { m.add("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields map[string]interface{})  { m.add("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields map[string]interface{}) { m.add("ERROR", msg, fields) }

func TestRequestLoggingMiddleware_LogsRequestAndResponse(t *testing.T) {
	logger := &MockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/discover?x=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "Request started", logger.logs[0].Message)
	assert.Equal(t, "POST", logger.logs[0].Fields["method"])
	assert.Equal(t, "/discover", logger.logs[0].Fields["path"])

	assert.Equal(t, "INFO", logger.logs[1].Level)
	assert.Equal(t, "Request completed", logger.logs[1].Message)
	assert.Equal(t, http.StatusCreated, logger.logs[1].Fields["status"])
	assert.Contains(t, logger.logs[1].Fields, "duration_ms")
}

func TestRequestLoggingMiddleware_RequestIDInHeaderAndContext(t *testing.T) {
	var fromContext string
	handler := RequestLoggingMiddleware(&MockLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = interfaces.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, fromContext)
	assert.Equal(t, fromContext, rec.Header().Get("X-Request-ID"))
}

func TestRequestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	handler := RequestLoggingMiddleware(&MockLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestLoggingMiddleware_ServerErrorsLoggedAsErrors(t *testing.T) {
	logger := &MockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	last := logger.logs[len(logger.logs)-1]
	assert.Equal(t, "ERROR", last.Level)
	assert.Equal(t, http.StatusInternalServerError, last.Fields["status"])
}

func TestResponseWriter_DefaultStatusAndSingleWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.Write([]byte("hi"))
	rw.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.Equal(t, http.StatusOK, rec.Code)
}
