package types

import "errors"

// Failure taxonomy for opening and writing safes. Each condition is a
// distinct sentinel so callers can branch with errors.Is; layers above wrap
// them with positional context.
var (
	// ErrCorruptHeader means the fixed prologue or epilogue structure is
	// malformed: bad magic tag, short file, or a ciphertext body that is
	// not a whole number of cipher blocks.
	ErrCorruptHeader = errors.New("corrupt file header")

	// ErrWrongPassphrase means the stretched-key check value did not match.
	// Retrying with the same passphrase can never succeed.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrLowIterations means the file declares a key-stretch iteration
	// count below the configured floor.
	ErrLowIterations = errors.New("iteration count below configured minimum")

	// ErrTruncatedStream means field framing ran past the available
	// plaintext: a partial length/type header or a value longer than the
	// remaining bytes.
	ErrTruncatedStream = errors.New("truncated field stream")

	// ErrDuplicateField means a non-repeatable field type appeared twice
	// in one header or record.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrMissingEOFMarker means the plaintext was consumed without finding
	// the fixed end-of-file marker where expected.
	ErrMissingEOFMarker = errors.New("missing EOF marker")

	// ErrIntegrityFailure means the computed HMAC does not match the digest
	// stored in the epilogue. Always fatal; never retried.
	ErrIntegrityFailure = errors.New("integrity check failed")

	// ErrUnsupportedVersion means the header version field names a major
	// format revision this implementation cannot safely round-trip.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrRecordNotFound is returned by UUID lookups on the record
	// collection.
	ErrRecordNotFound = errors.New("record not found")
)
