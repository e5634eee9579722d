// ABOUTME: Dependencies container provides dependency injection for the discovery stack
// ABOUTME: Bundles the outbound HTTP client, optional outcome cache and logger

package interfaces

// Dependencies holds the external collaborators the discovery components need.
// HTTPClient is required; Cache and Logger may be nil.
type Dependencies struct {
	// Cache memoises discovery outcomes; nil disables caching
	Cache Cache

	// HTTPClient performs every fetch, direct and candidate alike
	HTTPClient HTTPClient

	// Logger receives per-step discovery logs
	Logger Logger
}

// LoggerOrNop returns the configured logger, or a NopLogger when none is set
func (d Dependencies) LoggerOrNop() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}
