// Package metrics provides observability hooks for content loading and serving.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks at call sites:
//
//	store := docs.Options{Recorder: metrics.NoopRecorder{}}
//
// When metrics are enabled the CLI swaps in a PrometheusRecorder bound to a
// registry that is also exposed over HTTP via HTTPHandler.
package metrics
