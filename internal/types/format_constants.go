package types

// On-disk layout of a Password Safe v3 file:
//
//	Name      Bytes  Type
//	TAG       4      ASCII "PWS3"
//	SALT      32     BIN
//	ITER      4      LE uint32
//	H(P')     32     BIN
//	B1B2      32     BIN (K encrypted with P', Twofish ECB)
//	B3B4      32     BIN (L encrypted with P', Twofish ECB)
//	IV        16     BIN
//	Crypted   16n    BIN (CBC, key K, the stored IV)
//	EOF       16     ASCII "PWS3-EOFPWS3-EOF"
//	HMAC      32     BIN (HMAC-SHA256, key L, over field values)

const (
	// MagicTag identifies a v3 safe. Always the first four bytes of the file.
	MagicTag = "PWS3"

	// EOFMarker terminates the ciphertext body. The HMAC follows it.
	EOFMarker = "PWS3-EOFPWS3-EOF"

	// BlockSize is the Twofish cipher block size. Every field is padded to
	// a multiple of it, and the ciphertext body is a whole number of blocks.
	BlockSize = 16

	// SaltSize is the length of the key-stretching salt.
	SaltSize = 32

	// KeySize is the length of the stretched key and of each session key
	// (K for data, L for the HMAC).
	KeySize = 32

	// DigestSize is the length of the SHA-256 based stretched-key check
	// and of the epilogue HMAC.
	DigestSize = 32

	// PrologueSize is the fixed number of bytes before the ciphertext body:
	// tag + salt + iterations + H(P') + B1B2 + B3B4 + IV.
	PrologueSize = 4 + SaltSize + 4 + DigestSize + 2*KeySize + BlockSize

	// EpilogueSize is the EOF marker plus the HMAC.
	EpilogueSize = len(EOFMarker) + DigestSize

	// MinFileSize is the smallest structurally valid file: a prologue and
	// an epilogue with an empty body.
	MinFileSize = PrologueSize + EpilogueSize
)

const (
	// FieldHeaderSize is the per-field framing overhead: a 4-byte
	// little-endian length followed by a 1-byte type code.
	FieldHeaderSize = 5

	// EndMarkerType terminates both the header field stream and each
	// record's field stream. Its value is always empty.
	EndMarkerType = 0xff
)

const (
	// FormatVersion is the newest format revision this package writes.
	FormatVersion = 0x030d

	// FormatVersionMajor is the major revision this package understands.
	// Files whose version field has a different high byte are rejected.
	FormatVersionMajor = 0x03

	// MinIterations is the smallest key-stretch iteration count the format
	// document permits. Files below it are rejected unless the caller
	// lowers the floor explicitly.
	MinIterations = 2048

	// DefaultIterations is the iteration count used when writing a safe
	// unless the caller asks for more.
	DefaultIterations = 2048
)
