package interfaces

import "github.com/deploymenttheory/go-pwsafe/internal/types"

// FieldSource yields decoded fields from a plaintext stream, one at a time.
// The sequence is finite and non-restartable: after an end marker or an
// error, Next keeps returning the same outcome.
type FieldSource interface {
	// Next returns the next field in the stream. It returns
	// types.ErrTruncatedStream when a partial field header or short value
	// is encountered, and io.EOF-style exhaustion is signaled by the
	// (Field{}, false, nil) form of the ok flag.
	Next() (field types.Field, ok bool, err error)

	// Offset reports how many plaintext bytes have been consumed,
	// including block padding.
	Offset() int
}

// FieldSink assembles fields back into padded plaintext blocks.
type FieldSink interface {
	// Append serializes one field, padding to the next cipher-block
	// boundary.
	Append(field types.Field) error

	// Bytes returns the plaintext accumulated so far. Its length is always
	// a multiple of the cipher block size.
	Bytes() []byte
}
