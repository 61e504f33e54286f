package prologue

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

func testPrologue() *Prologue {
	return &Prologue{
		Salt:       bytes.Repeat([]byte{0x01}, types.SaltSize),
		Iterations: 2048,
		Check:      bytes.Repeat([]byte{0x02}, types.DigestSize),
		B1B2:       bytes.Repeat([]byte{0x03}, 2*types.BlockSize),
		B3B4:       bytes.Repeat([]byte{0x04}, 2*types.BlockSize),
		IV:         bytes.Repeat([]byte{0x05}, types.BlockSize),
	}
}

func TestPrologueRoundTrip(t *testing.T) {
	p := testPrologue()
	raw, err := p.Bytes()
	require.NoError(t, err)
	assert.Len(t, raw, types.PrologueSize)

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestParseRejectsBadMagic(t *testing.T) {
	raw, err := testPrologue().Bytes()
	require.NoError(t, err)
	raw[0] = 'X'

	_, err = Parse(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCorruptHeader))
}

func TestParseRejectsShortInput(t *testing.T) {
	_, err := Parse(make([]byte, types.PrologueSize-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCorruptHeader))
}

func TestBytesRejectsWrongSectionLengths(t *testing.T) {
	p := testPrologue()
	p.IV = p.IV[:8]
	_, err := p.Bytes()
	assert.Error(t, err)
}

func buildFile(t *testing.T, body []byte, marker string, digest []byte) []byte {
	t.Helper()
	raw, err := testPrologue().Bytes()
	require.NoError(t, err)
	raw = append(raw, body...)
	raw = append(raw, marker...)
	raw = append(raw, digest...)
	return raw
}

func TestSplit(t *testing.T) {
	body := bytes.Repeat([]byte{0xaa}, 3*types.BlockSize)
	digest := bytes.Repeat([]byte{0xdd}, types.DigestSize)
	raw := buildFile(t, body, types.EOFMarker, digest)

	p, gotBody, gotDigest, err := Split(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(2048), p.Iterations)
	assert.Equal(t, body, gotBody)
	assert.Equal(t, digest, gotDigest)
}

func TestSplitEmptyBody(t *testing.T) {
	digest := make([]byte, types.DigestSize)
	raw := buildFile(t, nil, types.EOFMarker, digest)

	_, body, _, err := Split(raw)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestSplitRejectsMissingEOFMarker(t *testing.T) {
	digest := make([]byte, types.DigestSize)
	raw := buildFile(t, make([]byte, types.BlockSize), "NOT-A-MARKER-123", digest)

	_, _, _, err := Split(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingEOFMarker))
}

func TestSplitRejectsUnalignedBody(t *testing.T) {
	digest := make([]byte, types.DigestSize)
	raw := buildFile(t, make([]byte, types.BlockSize+3), types.EOFMarker, digest)

	_, _, _, err := Split(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCorruptHeader))
}

func TestSplitRejectsTinyFile(t *testing.T) {
	_, _, _, err := Split(make([]byte, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCorruptHeader))
}

func TestEpilogue(t *testing.T) {
	digest := bytes.Repeat([]byte{0x07}, types.DigestSize)
	ep, err := Epilogue(digest)
	require.NoError(t, err)
	assert.Len(t, ep, types.EpilogueSize)
	assert.Equal(t, types.EOFMarker, string(ep[:len(types.EOFMarker)]))

	_, err = Epilogue(digest[:4])
	assert.Error(t, err)
}
