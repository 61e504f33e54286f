package interfaces

import "hash"

// PrimitiveProvider is the boundary to the cryptographic primitives the
// format drives. The format engine never touches a cipher directly; it asks
// a provider for keyed block operations, hashing, and randomness. All block
// operations work on whole cipher blocks; callers pre-pad.
type PrimitiveProvider interface {
	// Hash returns the secure hash of data.
	Hash(data []byte) []byte

	// NewHMAC returns a streaming keyed-hash instance for the given key.
	// The integrity engine feeds it field values incrementally.
	NewHMAC(key []byte) hash.Hash

	// CBCEncrypt encrypts plaintext with the key and IV in CBC mode.
	// len(plaintext) must be a multiple of the cipher block size.
	CBCEncrypt(key, iv, plaintext []byte) ([]byte, error)

	// CBCDecrypt decrypts ciphertext with the key and IV in CBC mode.
	// len(ciphertext) must be a multiple of the cipher block size.
	CBCDecrypt(key, iv, ciphertext []byte) ([]byte, error)

	// ECBEncrypt encrypts each block of src independently with the key,
	// with no chaining. Used only for the session-key blocks B1..B4.
	ECBEncrypt(key, src []byte) ([]byte, error)

	// ECBDecrypt is the inverse of ECBEncrypt.
	ECBDecrypt(key, src []byte) ([]byte, error)

	// RandomBytes returns n bytes from a cryptographically secure source.
	RandomBytes(n int) ([]byte, error)
}
