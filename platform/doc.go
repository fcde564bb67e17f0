// Package platform defines the presence core's contracts with the rest of
// the Hallway platform.
//
// The presence server deliberately consumes only two capabilities from the
// surrounding system:
//   - TokenVerifier: resolve a bearer token to a user id
//   - SpaceLoader: load a space's geometry (dimensions, blocked cells, spawn)
//
// Everything else the platform does (signup, avatar CRUD, map editing,
// persistence) stays on the other side of these interfaces.
//
// Implementations:
//
// HTTPVerifier and HTTPSpaceLoader talk to the platform's HTTP services and
// are used in production deployments. StaticVerifier holds a fixed
// token-to-user map for development and tests; the file-backed space loader
// lives in space/config.
//
// Errors:
//
// ErrInvalidToken and ErrSpaceNotFound are the sentinel errors callers
// branch on; transport-level failures are wrapped separately so an auth
// outage is distinguishable from a bad token.
package platform
