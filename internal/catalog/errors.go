package catalog

import "errors"

// Error kinds returned by the catalog core. Callers match with errors.Is and
// translate to their own surface (HTTP status, CLI message, retry).
var (
	// ErrUnsupportedFormat means the raw ISBN is neither 10 nor 13
	// characters after stripping separators, or contains invalid characters.
	ErrUnsupportedFormat = errors.New("isbn: unsupported format")

	// ErrInvalidChecksum means the ISBN has the right shape but fails its
	// check-digit validation.
	ErrInvalidChecksum = errors.New("isbn: invalid checksum")

	// ErrUnknownGenre means the genre is not present in the taxonomy.
	ErrUnknownGenre = errors.New("catalog: unknown genre")

	// ErrInvalidInput means the author or title is empty after trimming.
	ErrInvalidInput = errors.New("catalog: invalid input")

	// ErrDuplicateCode is returned by the store when an insert violates the
	// shelf-code uniqueness constraint. The registrar retries allocation
	// exactly once before surfacing it.
	ErrDuplicateCode = errors.New("catalog: duplicate shelf code")
)
