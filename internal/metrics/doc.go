// Package metrics declares the Prometheus collectors of the sync process.
//
// Collectors are registered on the default registry through promauto. The
// server package exposes them on /metrics with promhttp.Handler().
package metrics
