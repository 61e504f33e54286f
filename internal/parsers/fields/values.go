package fields

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Typed value codecs shared by the header and record models. Text is UTF-8,
// timestamps are 32-bit little-endian epoch seconds, UUIDs are 16 raw bytes.

// DecodeText interprets a field value as UTF-8 text.
func DecodeText(f types.Field) (string, error) {
	if !utf8.Valid(f.Value) {
		return "", fmt.Errorf("field 0x%02x value is not valid UTF-8", f.Type)
	}
	return string(f.Value), nil
}

// DecodeTime parses a timestamp field. Four bytes is the normal form; some
// legacy writers stored eight hex characters instead, which decode to the
// same four bytes.
func DecodeTime(f types.Field) (time.Time, error) {
	switch len(f.Value) {
	case 4:
		secs := binary.LittleEndian.Uint32(f.Value)
		return time.Unix(int64(secs), 0).UTC(), nil
	case 8:
		raw, err := hex.DecodeString(string(f.Value))
		if err != nil {
			return time.Time{}, fmt.Errorf("field 0x%02x hex timestamp: %w", f.Type, err)
		}
		return DecodeTime(types.Field{Type: f.Type, Value: raw})
	default:
		return time.Time{}, fmt.Errorf("field 0x%02x timestamp has length %d, want 4 or 8",
			f.Type, len(f.Value))
	}
}

// EncodeTime serializes a timestamp in the normal 4-byte form.
func EncodeTime(code uint8, t time.Time) types.Field {
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], uint32(t.Unix()))
	return types.Field{Type: code, Value: v[:]}
}

// DecodeUUID parses a 16-byte UUID field.
func DecodeUUID(f types.Field) (uuid.UUID, error) {
	u, err := uuid.FromBytes(f.Value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("field 0x%02x: %w", f.Type, err)
	}
	return u, nil
}

// EncodeUUID serializes a UUID as 16 raw bytes.
func EncodeUUID(code uint8, u uuid.UUID) types.Field {
	return types.NewField(code, u[:])
}

// DecodeVersion parses the 2-byte little-endian format version field.
func DecodeVersion(f types.Field) (uint16, error) {
	if len(f.Value) != 2 {
		return 0, fmt.Errorf("version field has length %d, want 2", len(f.Value))
	}
	return binary.LittleEndian.Uint16(f.Value), nil
}

// EncodeVersion serializes the format version field.
func EncodeVersion(code uint8, version uint16) types.Field {
	var v [2]byte
	binary.LittleEndian.PutUint16(v[:], version)
	return types.Field{Type: code, Value: v[:]}
}

// TextField builds a text field without copying through NewField twice.
func TextField(code uint8, s string) types.Field {
	return types.NewField(code, []byte(s))
}
