// Package integrity computes and verifies the epilogue digest: an
// HMAC-SHA256, keyed with L, over the value bytes of every header and
// record field in parsed order. Per the format document the digest covers
// only field values, not their type or length bytes; the end markers
// contribute nothing because their values are empty.
package integrity

import (
	"crypto/subtle"
	"fmt"
	"hash"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Engine accumulates field values into a keyed digest. Field order matters:
// feeding the same fields in a different order produces a different digest.
type Engine struct {
	mac hash.Hash
}

// New returns an engine keyed with the HMAC session key L.
func New(p interfaces.PrimitiveProvider, key []byte) *Engine {
	return &Engine{mac: p.NewHMAC(key)}
}

// AddField feeds one field's value bytes into the digest.
func (e *Engine) AddField(f types.Field) {
	e.mac.Write(f.Value)
}

// AddFields feeds a field sequence in order.
func (e *Engine) AddFields(fs []types.Field) {
	for _, f := range fs {
		e.AddField(f)
	}
}

// Sum returns the digest over everything added so far.
func (e *Engine) Sum() []byte {
	return e.mac.Sum(nil)
}

// Verify compares the computed digest against the stored epilogue digest in
// constant time. A mismatch is types.ErrIntegrityFailure and is always
// fatal to the open; identical bytes can never verify differently on
// retry.
func (e *Engine) Verify(stored []byte) error {
	computed := e.Sum()
	if len(stored) != len(computed) ||
		subtle.ConstantTimeCompare(computed, stored) != 1 {
		return fmt.Errorf("%w: stored digest does not match computed digest",
			types.ErrIntegrityFailure)
	}
	return nil
}
