// Package api provides the HTTP API layer for the FeedFinder service.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// - server.go: Huma API configuration, CORS and middleware
// - handlers/: Discover and health handlers
// - middleware/: Request logging with request IDs and per-IP rate limiting
//
// # Endpoints
//
//	POST /discover   {"urls": [...]}  -> {"feeds": [{"url", "status", "feedUrl", "feed", "error"}]}
//	GET  /discover?url=...            -> feed, or 404 when none was found
//	GET  /health
//
// The OpenAPI spec is served at /openapi.json and the docs UI at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  60,
//	    RateWindow: time.Minute,
//	})
//
//	handlers.NewDiscoverHandler(discoverer, pool).RegisterRoutes(humaAPI)
//	handlers.NewHealthHandler("1.0.0").RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 format produced by Huma:
//
//	{
//	    "status": 404,
//	    "title": "Not Found",
//	    "detail": "No feed found at the URL"
//	}
//
// Upstream details such as DNS errors stay in the server logs.
package api
