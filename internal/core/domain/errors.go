package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document or parser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexNotReady indicates no index snapshot has been built yet.
	// Queries arriving before the first load fail with this.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrNoUsefulMatch indicates retrieval found nothing above the
	// minimum confidence threshold.
	ErrNoUsefulMatch = errors.New("no useful match")

	// ErrConflictDetected indicates a learned fact contradicts
	// existing knowledge and was quarantined for review.
	ErrConflictDetected = errors.New("conflict detected")

	// ErrIngestion indicates a source document could not be loaded.
	ErrIngestion = errors.New("ingestion failed")

	// ErrPersistence indicates a durable write did not complete.
	// Learned facts are never acknowledged before they are stored.
	ErrPersistence = errors.New("persistence failed")

	// ErrSessionExpired indicates the session was evicted after
	// exceeding the idle TTL.
	ErrSessionExpired = errors.New("session expired")
)
