// Package kdf implements the v3 key-stretching scheme and the recovery of
// the two working keys from the file prologue.
//
// The stretched key P' is H(passphrase ‖ salt) fed through the hash for the
// declared number of rounds. H(P') is stored in the file as a passphrase
// check; the session keys K (data) and L (HMAC) are stored as four cipher
// blocks B1..B4 encrypted with P' in ECB mode.
package kdf

import (
	"crypto/subtle"
	"fmt"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// StretchKey derives P' from the passphrase and salt. The result is always
// types.KeySize bytes. Deterministic: identical inputs always produce the
// identical key, so callers retry only with a different passphrase.
func StretchKey(p interfaces.PrimitiveProvider, passphrase, salt []byte, iterations uint32) []byte {
	buf := make([]byte, 0, len(passphrase)+len(salt))
	buf = append(buf, passphrase...)
	buf = append(buf, salt...)
	key := p.Hash(buf)
	for i := uint32(0); i < iterations; i++ {
		key = p.Hash(key)
	}
	return key
}

// CheckValue returns the stretched-key check H(P') stored in the prologue.
func CheckValue(p interfaces.PrimitiveProvider, stretched []byte) []byte {
	return p.Hash(stretched)
}

// VerifyCheckValue compares H(P') against the stored check in constant
// time. A mismatch means the passphrase is wrong.
func VerifyCheckValue(p interfaces.PrimitiveProvider, stretched, stored []byte) bool {
	computed := CheckValue(p, stretched)
	if len(computed) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare(computed, stored) == 1
}

// ValidateIterations enforces the configured iteration floor. Files with
// suspiciously low counts are rejected as a hardening measure.
func ValidateIterations(iterations, floor uint32) error {
	if iterations < floor {
		return fmt.Errorf("%w: file declares %d, minimum is %d",
			types.ErrLowIterations, iterations, floor)
	}
	return nil
}

// RecoverSessionKeys decrypts B1‖B2 and B3‖B4 with the stretched key,
// yielding K and L. ECB by design: the four blocks are independent.
func RecoverSessionKeys(p interfaces.PrimitiveProvider, stretched, b1b2, b3b4 []byte) (k, l []byte, err error) {
	if len(b1b2) != 2*types.BlockSize || len(b3b4) != 2*types.BlockSize {
		return nil, nil, fmt.Errorf("%w: session key blocks must be %d bytes",
			types.ErrCorruptHeader, 2*types.BlockSize)
	}
	if k, err = p.ECBDecrypt(stretched, b1b2); err != nil {
		return nil, nil, fmt.Errorf("recovering data key: %w", err)
	}
	if l, err = p.ECBDecrypt(stretched, b3b4); err != nil {
		return nil, nil, fmt.Errorf("recovering hmac key: %w", err)
	}
	return k, l, nil
}

// WrapSessionKeys encrypts K and L with the stretched key for storage in
// the prologue. The inverse of RecoverSessionKeys.
func WrapSessionKeys(p interfaces.PrimitiveProvider, stretched, k, l []byte) (b1b2, b3b4 []byte, err error) {
	if len(k) != types.KeySize || len(l) != types.KeySize {
		return nil, nil, fmt.Errorf("session keys must be %d bytes", types.KeySize)
	}
	if b1b2, err = p.ECBEncrypt(stretched, k); err != nil {
		return nil, nil, fmt.Errorf("wrapping data key: %w", err)
	}
	if b3b4, err = p.ECBEncrypt(stretched, l); err != nil {
		return nil, nil, fmt.Errorf("wrapping hmac key: %w", err)
	}
	return b1b2, b3b4, nil
}
