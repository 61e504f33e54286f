// Package fields implements the tag-length-value codec that frames every
// header and record field inside the decrypted body: a 4-byte little-endian
// length, a 1-byte type code, the value bytes, then padding up to the next
// cipher-block boundary. Padding content is unspecified and discarded.
package fields

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// decoder walks a decrypted plaintext buffer, yielding one field per call.
// Non-restartable: a framing error is sticky.
type decoder struct {
	buf    []byte
	offset int
	err    error
}

// NewDecoder returns a FieldSource over the given plaintext. The buffer is
// not copied; individual field values are.
func NewDecoder(plaintext []byte) interfaces.FieldSource {
	return &decoder{buf: plaintext}
}

func (d *decoder) Next() (types.Field, bool, error) {
	if d.err != nil {
		return types.Field{}, false, d.err
	}
	remaining := len(d.buf) - d.offset
	if remaining == 0 {
		return types.Field{}, false, nil
	}
	if remaining < types.FieldHeaderSize {
		d.err = fmt.Errorf("%w: %d trailing bytes cannot hold a field header",
			types.ErrTruncatedStream, remaining)
		return types.Field{}, false, d.err
	}

	length := binary.LittleEndian.Uint32(d.buf[d.offset : d.offset+4])
	code := d.buf[d.offset+4]
	valueStart := d.offset + types.FieldHeaderSize
	if uint64(length) > uint64(len(d.buf)-valueStart) {
		d.err = fmt.Errorf("%w: field 0x%02x declares %d value bytes, %d remain",
			types.ErrTruncatedStream, code, length, len(d.buf)-valueStart)
		return types.Field{}, false, d.err
	}

	field := types.NewField(code, d.buf[valueStart:valueStart+int(length)])

	// Advance past the value and the block padding after it. A zero-length
	// value still consumes a whole length+type+padding unit.
	consumed := types.FieldHeaderSize + int(length)
	if rem := consumed % types.BlockSize; rem != 0 {
		consumed += types.BlockSize - rem
	}
	if d.offset+consumed > len(d.buf) {
		d.err = fmt.Errorf("%w: field 0x%02x padding runs past end of stream",
			types.ErrTruncatedStream, code)
		return types.Field{}, false, d.err
	}
	d.offset += consumed
	return field, true, nil
}

func (d *decoder) Offset() int {
	return d.offset
}
