package discovery

import (
	"context"
	"sync"
	"time"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	"feedfinder-api/core/interfaces"
)

// mockFetcher serves documents from a map unless fetchFunc is set, and counts calls per URL
type mockFetcher struct {
	mu        sync.Mutex
	fetchFunc func(ctx context.Context, url string) (*domain.RawDocument, error)
	pages     map[string]string
	calls     []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	body, ok := m.pages[url]
	if !ok {
		return nil, &coreerrors.TransportError{URL: url, StatusCode: 404}
	}
	return &domain.RawDocument{URL: url, Body: body}, nil
}

func (m *mockFetcher) callsFor(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == url {
			n++
		}
	}
	return n
}

// mockParser is a mock implementation of the FeedParser interface
type mockParser struct {
	mu        sync.Mutex
	parseFunc func(text string) (*domain.Feed, error)
	calls     int
}

func (m *mockParser) Parse(text string) (*domain.Feed, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.parseFunc != nil {
		return m.parseFunc(text)
	}
	return nil, &coreerrors.UnrecognizedFormatError{}
}

// mockLinkFinder is a mock implementation of the LinkFinder interface
type mockLinkFinder struct {
	mu       sync.Mutex
	findFunc func(ctx context.Context, pageURL string) ([]string, error)
	calls    []string
}

func (m *mockLinkFinder) FindFeedLinks(ctx context.Context, pageURL string) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, pageURL)
	m.mu.Unlock()

	if m.findFunc != nil {
		return m.findFunc(ctx, pageURL)
	}
	return nil, nil
}

// mockCache is a map-backed implementation of the Cache interface
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.data, key)
	return nil
}

// logEntry is one message captured by recordingLogger
type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// recordingLogger captures log calls for assertions
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}
