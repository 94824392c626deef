// Package breaker implements the JSON control API for the breaker service:
// pause, unpause, and status over HTTP. The transport stays thin: it decodes
// requests, delegates to the Service interface, and maps the failure
// taxonomy to HTTP statuses and machine-readable kinds that clients map back
// to domain errors.
package breaker
