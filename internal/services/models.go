package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// OpenOptions tunes the hardening checks applied while opening a safe.
type OpenOptions struct {
	// MinIterations is the lowest key-stretch iteration count accepted
	// from a file. Zero means types.MinIterations. Lowering it below the
	// format minimum is an explicit caller decision, never a default.
	MinIterations uint32
}

func (o OpenOptions) minIterations() uint32 {
	if o.MinIterations == 0 {
		return types.MinIterations
	}
	return o.MinIterations
}

// SaveOptions tunes how a safe is serialized.
type SaveOptions struct {
	// SkipSaveStamp suppresses the automatic refresh of the last-save
	// timestamp/application/user/host header fields. Used when a
	// byte-faithful round trip of an unmodified safe is wanted.
	SkipSaveStamp bool
}

// parseState tracks the open pipeline. Each state is named for what it
// establishes; transitions run strictly forward and any failure is terminal
// for the attempt. String describes the work in flight, for error context.
type parseState int

const (
	stateUnopened parseState = iota
	statePrologueRead
	stateKeysDerived
	stateDecrypting
	stateParsed
	stateVerified
)

func (s parseState) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case statePrologueRead:
		return "reading prologue"
	case stateKeysDerived:
		return "deriving keys"
	case stateDecrypting:
		return "decrypting"
	case stateParsed:
		return "parsing fields"
	case stateVerified:
		return "verifying integrity"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

// Warning is a data-quality finding from Validate: the file parsed and
// verified, but its contents look suspect.
type Warning struct {
	UUID    uuid.UUID
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.UUID, w.Message)
}
