// Package middleware groups the Fiber middleware registered by the start command.
//
//   - rayid: tags every request with a uuid, echoed in the X-Ray-ID header
//     and attached to log lines.
//   - metrics: Prometheus request counters and latency histograms, plus the
//     /metrics handler.
//   - ratelimit: per-IP token buckets, enabled when server.rate_limit > 0.
package middleware
