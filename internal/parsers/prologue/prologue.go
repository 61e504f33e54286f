// Package prologue reads and writes the fixed plaintext frame around the
// encrypted body: the prologue (magic tag, salt, iteration count,
// stretched-key check, wrapped session keys, IV) and the epilogue (EOF
// marker, HMAC digest).
package prologue

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Prologue holds the decoded fixed header of a safe file.
type Prologue struct {
	// Salt feeds the key stretch alongside the passphrase.
	Salt []byte

	// Iterations is the key-stretch round count declared by the file.
	Iterations uint32

	// Check is H(P'), the stretched-key check value.
	Check []byte

	// B1B2 is the data key K encrypted with P' (two ECB blocks).
	B1B2 []byte

	// B3B4 is the HMAC key L encrypted with P' (two ECB blocks).
	B3B4 []byte

	// IV is the CBC initialization vector for the body, stored in clear.
	IV []byte
}

// Parse decodes and validates the fixed prologue at the start of data.
func Parse(data []byte) (*Prologue, error) {
	if len(data) < types.PrologueSize {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a prologue",
			types.ErrCorruptHeader, len(data))
	}
	if string(data[:4]) != types.MagicTag {
		return nil, fmt.Errorf("%w: bad magic tag %q", types.ErrCorruptHeader, data[:4])
	}

	p := &Prologue{}
	off := 4
	p.Salt = cloneSection(data, &off, types.SaltSize)
	p.Iterations = binary.LittleEndian.Uint32(data[off : off+4])
	off += 4
	p.Check = cloneSection(data, &off, types.DigestSize)
	p.B1B2 = cloneSection(data, &off, 2*types.BlockSize)
	p.B3B4 = cloneSection(data, &off, 2*types.BlockSize)
	p.IV = cloneSection(data, &off, types.BlockSize)
	return p, nil
}

func cloneSection(data []byte, off *int, n int) []byte {
	out := make([]byte, n)
	copy(out, data[*off:*off+n])
	*off += n
	return out
}

// Bytes serializes the prologue into its fixed on-disk form.
func (p *Prologue) Bytes() ([]byte, error) {
	if len(p.Salt) != types.SaltSize || len(p.Check) != types.DigestSize ||
		len(p.B1B2) != 2*types.BlockSize || len(p.B3B4) != 2*types.BlockSize ||
		len(p.IV) != types.BlockSize {
		return nil, fmt.Errorf("prologue section has wrong length")
	}
	var buf bytes.Buffer
	buf.Grow(types.PrologueSize)
	buf.WriteString(types.MagicTag)
	buf.Write(p.Salt)
	var iter [4]byte
	binary.LittleEndian.PutUint32(iter[:], p.Iterations)
	buf.Write(iter[:])
	buf.Write(p.Check)
	buf.Write(p.B1B2)
	buf.Write(p.B3B4)
	buf.Write(p.IV)
	return buf.Bytes(), nil
}

// Split carves a raw file into prologue, ciphertext body, and epilogue
// digest, validating the structural frame. The body length must be a whole
// number of cipher blocks and the EOF marker must sit directly before the
// digest.
func Split(data []byte) (*Prologue, []byte, []byte, error) {
	if len(data) < types.MinFileSize {
		return nil, nil, nil, fmt.Errorf("%w: file is %d bytes, minimum is %d",
			types.ErrCorruptHeader, len(data), types.MinFileSize)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, nil, nil, err
	}

	rest := data[types.PrologueSize:]
	if len(rest) < types.EpilogueSize {
		return nil, nil, nil, fmt.Errorf("%w: no room for epilogue", types.ErrCorruptHeader)
	}
	body := rest[:len(rest)-types.EpilogueSize]
	epilogue := rest[len(rest)-types.EpilogueSize:]

	if len(body)%types.BlockSize != 0 {
		return nil, nil, nil, fmt.Errorf("%w: body length %d is not a multiple of the block size",
			types.ErrCorruptHeader, len(body))
	}
	if string(epilogue[:len(types.EOFMarker)]) != types.EOFMarker {
		return nil, nil, nil, fmt.Errorf("%w: epilogue starts with %q",
			types.ErrMissingEOFMarker, epilogue[:len(types.EOFMarker)])
	}

	digest := make([]byte, types.DigestSize)
	copy(digest, epilogue[len(types.EOFMarker):])
	return p, body, digest, nil
}

// Epilogue serializes the EOF marker and digest that close a safe file.
func Epilogue(digest []byte) ([]byte, error) {
	if len(digest) != types.DigestSize {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", types.DigestSize, len(digest))
	}
	out := make([]byte, 0, types.EpilogueSize)
	out = append(out, types.EOFMarker...)
	out = append(out, digest...)
	return out, nil
}
