// Package gke provides the client boundary for the GKE control plane:
// typed request/response messages, an API interface with a REST-backed
// implementation, error classification helpers, bearer credentials, and a
// rate-limited decorator that spaces outbound calls.
package gke
