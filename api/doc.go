// Package api provides the HTTP surface of the Hallway presence server.
//
// The presence protocol itself is WebSocket-only; this package mounts the
// WebSocket endpoint and the operational endpoints around it:
//
//   - GET /ws - WebSocket upgrade into the presence protocol
//   - GET /healthz - liveness probe
//   - GET /api/status - live rooms and their occupant counts
//   - GET /api/metrics - presence counter snapshot
//   - GET /api/spaces - loadable space ids (local mode only)
//
// Request/Response Format:
//
// All /api endpoints return JSON. Errors are returned as JSON with
// appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Usage:
//
//	server := api.NewServer(registry, gateway, lister)
//	http.ListenAndServe(addr, server)
package api
