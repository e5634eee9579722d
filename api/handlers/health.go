// ABOUTME: Health handler reports liveness and uptime
// ABOUTME: Used by load balancers and container probes

package handlers

import (
	"context"
	"net/http"
	"time"

	"feedfinder-api/pkg/utils/duration"
	"github.com/danielgtaylor/huma/v2"
)

// CacheStats is implemented by cache backends that can describe their contents
type CacheStats interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// HealthHandler serves GET /health
type HealthHandler struct {
	version string
	started time.Time
	now     func() time.Time
	cache   CacheStats
}

// NewHealthHandler creates a health handler; uptime counts from now
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version: version,
		started: time.Now(),
		now:     time.Now,
	}
}

// WithCacheStats adds the cache backend's statistics to the health response
func (h *HealthHandler) WithCacheStats(cache CacheStats) *HealthHandler {
	h.cache = cache
	return h
}

// HealthOutput defines the health response
type HealthOutput struct {
	Body struct {
		Status  string                 `json:"status" example:"ok"`
		Version string                 `json:"version"`
		Uptime  string                 `json:"uptime" example:"2 hours 5 minutes"`
		Cache   map[string]interface{} `json:"cache,omitempty"`
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{}
	out.Body.Status = "ok"
	out.Body.Version = h.version
	out.Body.Uptime = duration.Human(h.now().Sub(h.started))

	// A failing cache degrades discovery to uncached, so health stays ok
	if h.cache != nil {
		stats, err := h.cache.Stats(ctx)
		if err != nil {
			stats = map[string]interface{}{"error": err.Error()}
		}
		out.Body.Cache = stats
	}
	return out, nil
}
