package documents

import "errors"

// ErrAuditDisabled is returned by read operations when no audit repository is configured.
var ErrAuditDisabled = errors.New("audit trail disabled")

// ErrInvalidInput marks a request the client must fix (bad hash, bad query param).
var ErrInvalidInput = errors.New("invalid input")
