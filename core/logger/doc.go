// Package logger builds the zap logger shared by every component.
//
// Level "debug" switches to zap's development preset; any other level uses
// the production preset at that level. Format "console" gives colored,
// human-readable lines, "json" is the default for deployments.
//
// Per-request logging goes through WithRayID, which copies the ray id set
// by the rayid middleware onto the logger. Entity serialises a failing
// aggregate or child as JSON for error logs, replacing inline media
// payloads with their size:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Recipe update failed", zap.Error(err), logger.Entity("entity", ingredient))
package logger
