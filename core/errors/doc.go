// Package errors provides structured errors shared by the recipe core.
//
// Every failure that crosses a package boundary carries an ErrorCode so the
// aggregate service and HTTP handlers can classify it without string matching.
//
// # Codes
//
//   - DUPLICATE_IDENTITY: a desired child collection repeats an id.
//   - NOT_FOUND: the target aggregate or child does not exist.
//   - PAYLOAD_TOO_LARGE: a media payload exceeds the configured maximum.
//   - PERSISTENCE: the store failed to commit.
//   - FILE_IO: a media file could not be read or written.
//   - INVALID_REQUEST: input failed validation.
//
// # Usage
//
//	err := errors.NewWithContext(errors.ErrCodeDuplicateIdentity, "duplicate id", map[string]any{"id": 3})
//	if errors.IsCode(err, errors.ErrCodeDuplicateIdentity) { ... }
package errors
