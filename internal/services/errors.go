package services

// Typed errors returned by the services. Handlers translate them to
// status codes in one place; anything unrecognized becomes a 500 with a
// generic body, with the detail logged server-side only.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

// InvalidCredentialsError is deliberately identical for an unknown email
// and a wrong password, so a caller cannot probe which one failed.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string { return "Invalid credentials" }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type EmptyMessageError struct{}

func (e *EmptyMessageError) Error() string { return "Message cannot be empty" }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// UpstreamError wraps a chat provider failure. Err carries the provider
// detail for logging; Message is what the client may see.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }
func (e *UpstreamError) Unwrap() error { return e.Err }

type StorageError struct{ Err error }

func (e *StorageError) Error() string { return "Storage error" }
func (e *StorageError) Unwrap() error { return e.Err }
