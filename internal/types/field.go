package types

// Field is the atomic unit of the format: one tag-length-value triple from
// the decrypted stream. A Field belongs to exactly one header or record and
// is never mutated after construction; edits replace the whole Field.
type Field struct {
	// Type is the 1-byte field type code. Its meaning depends on whether
	// the field sits in the header section or inside a record.
	Type uint8

	// Value holds the raw field bytes, exactly as framed. Length zero is
	// valid and common (the end markers are always empty).
	Value []byte
}

// NewField copies value so the Field owns its bytes independently of the
// buffer it was decoded from.
func NewField(code uint8, value []byte) Field {
	v := make([]byte, len(value))
	copy(v, value)
	return Field{Type: code, Value: v}
}

// IsEndMarker reports whether the field terminates its section.
func (f Field) IsEndMarker() bool {
	return f.Type == EndMarkerType
}

// Clone returns a Field with its own copy of the value bytes.
func (f Field) Clone() Field {
	return NewField(f.Type, f.Value)
}
