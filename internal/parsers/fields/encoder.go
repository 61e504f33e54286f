package fields

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// encoder serializes fields into padded plaintext blocks, the exact inverse
// of the decoder. Padding bytes come from the supplied reader; random bytes
// in production, a fixed source in tests that need reproducible output.
type encoder struct {
	buf bytes.Buffer
	pad io.Reader
}

// NewEncoder returns a FieldSink that pads with bytes from pad.
func NewEncoder(pad io.Reader) interfaces.FieldSink {
	return &encoder{pad: pad}
}

func (e *encoder) Append(field types.Field) error {
	if int64(len(field.Value)) > math.MaxUint32 {
		return fmt.Errorf("field 0x%02x value length %d overflows 32 bits",
			field.Type, len(field.Value))
	}

	var hdr [types.FieldHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:4], uint32(len(field.Value)))
	hdr[4] = field.Type
	e.buf.Write(hdr[:])
	e.buf.Write(field.Value)

	written := types.FieldHeaderSize + len(field.Value)
	if rem := written % types.BlockSize; rem != 0 {
		padding := make([]byte, types.BlockSize-rem)
		if _, err := io.ReadFull(e.pad, padding); err != nil {
			return fmt.Errorf("reading padding bytes: %w", err)
		}
		e.buf.Write(padding)
	}
	return nil
}

func (e *encoder) Bytes() []byte {
	return e.buf.Bytes()
}
