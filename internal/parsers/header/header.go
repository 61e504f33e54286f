// Package header implements the typed header model: a projection over the
// TLV codec that classifies header fields by type code, decodes the ones
// with known semantics, and preserves everything else verbatim so files
// written by newer format revisions survive a round trip.
package header

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/fields"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Header is the decoded header section of a safe. The parsed field order is
// retained: serializing an unmodified Header reproduces the original value
// bytes in the original order, which the integrity digest depends on.
// The end-of-header marker is implicit and re-added on serialization.
type Header struct {
	fields []types.Field
}

// Parse consumes header fields from src up to and including the end marker.
// The version field must come first, per the format document. Non-repeatable
// field types occurring twice abort with types.ErrDuplicateField.
func Parse(src interfaces.FieldSource) (*Header, error) {
	h := &Header{}
	seen := make(map[uint8]bool)
	for i := 0; ; i++ {
		f, ok, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("header field %d: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: header ended without end marker", types.ErrTruncatedStream)
		}
		if f.IsEndMarker() {
			if len(f.Value) != 0 {
				return nil, fmt.Errorf("%w: end-of-header field carries %d value bytes",
					types.ErrCorruptHeader, len(f.Value))
			}
			break
		}
		if i == 0 && f.Type != types.HeaderVersion {
			return nil, fmt.Errorf("%w: first header field is 0x%02x, want version",
				types.ErrCorruptHeader, f.Type)
		}
		if i != 0 && f.Type == types.HeaderVersion {
			return nil, fmt.Errorf("%w: header %s", types.ErrDuplicateField,
				types.HeaderFieldName(f.Type))
		}
		if seen[f.Type] && !types.RepeatableHeaderField(f.Type) {
			return nil, fmt.Errorf("%w: header %s (0x%02x)", types.ErrDuplicateField,
				types.HeaderFieldName(f.Type), f.Type)
		}
		seen[f.Type] = true

		if err := validateField(f); err != nil {
			return nil, err
		}
		h.fields = append(h.fields, f)
	}
	if len(h.fields) == 0 {
		return nil, fmt.Errorf("%w: header has no version field", types.ErrCorruptHeader)
	}
	return h, nil
}

// validateField checks that fields with known semantics decode cleanly.
// Unknown type codes pass through untouched; the non-default-preferences
// field is deliberately opaque and replayed byte-for-byte on save.
func validateField(f types.Field) error {
	switch f.Type {
	case types.HeaderVersion:
		v, err := fields.DecodeVersion(f)
		if err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
		if v>>8 != types.FormatVersionMajor {
			return fmt.Errorf("%w: 0x%04x", types.ErrUnsupportedVersion, v)
		}
	case types.HeaderUUID:
		if _, err := fields.DecodeUUID(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	case types.HeaderLastSaveTime:
		if _, err := fields.DecodeTime(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	case types.HeaderLastSaveApp, types.HeaderLastSaveUser, types.HeaderLastSaveHost,
		types.HeaderDatabaseName, types.HeaderDatabaseDesc, types.HeaderEmptyGroups:
		if _, err := fields.DecodeText(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	}
	return nil
}

// New builds a minimal header for a fresh safe: version first, then a
// random UUID.
func New() (*Header, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating header uuid: %w", err)
	}
	return &Header{fields: []types.Field{
		fields.EncodeVersion(types.HeaderVersion, types.FormatVersion),
		fields.EncodeUUID(types.HeaderUUID, u),
	}}, nil
}

// AppendTo serializes all fields in retained order, then the end marker.
func (h *Header) AppendTo(sink interfaces.FieldSink) error {
	for _, f := range h.fields {
		if err := sink.Append(f); err != nil {
			return fmt.Errorf("encoding header %s: %w", types.HeaderFieldName(f.Type), err)
		}
	}
	if err := sink.Append(types.Field{Type: types.HeaderEnd}); err != nil {
		return fmt.Errorf("encoding end-of-header: %w", err)
	}
	return nil
}

// Fields returns the retained fields in parsed order, without the end
// marker. The slice and its values are copies.
func (h *Header) Fields() []types.Field {
	out := make([]types.Field, len(h.fields))
	for i, f := range h.fields {
		out[i] = f.Clone()
	}
	return out
}

// UnknownFields returns the preserved fields whose type codes this
// implementation has no semantics for.
func (h *Header) UnknownFields() []types.Field {
	var out []types.Field
	for _, f := range h.fields {
		if !types.KnownHeaderField(f.Type) {
			out = append(out, f.Clone())
		}
	}
	return out
}

func (h *Header) find(code uint8) (types.Field, bool) {
	for _, f := range h.fields {
		if f.Type == code {
			return f, true
		}
	}
	return types.Field{}, false
}

// set replaces the first field of the given type in place, or appends at
// the section end when absent. In-place replacement keeps the positions of
// untouched fields stable for the round-trip and digest properties.
func (h *Header) set(f types.Field) {
	for i := range h.fields {
		if h.fields[i].Type == f.Type {
			h.fields[i] = f
			return
		}
	}
	h.fields = append(h.fields, f)
}

// Version returns the format version declared by the header.
func (h *Header) Version() uint16 {
	f, ok := h.find(types.HeaderVersion)
	if !ok {
		return 0
	}
	v, _ := fields.DecodeVersion(f)
	return v
}

// UUID returns the database identifier, if present.
func (h *Header) UUID() (uuid.UUID, bool) {
	f, ok := h.find(types.HeaderUUID)
	if !ok {
		return uuid.Nil, false
	}
	u, err := fields.DecodeUUID(f)
	return u, err == nil
}

// SetUUID replaces the database identifier.
func (h *Header) SetUUID(u uuid.UUID) {
	h.set(fields.EncodeUUID(types.HeaderUUID, u))
}

func (h *Header) text(code uint8) string {
	f, ok := h.find(code)
	if !ok {
		return ""
	}
	s, _ := fields.DecodeText(f)
	return s
}

// Name returns the database name.
func (h *Header) Name() string { return h.text(types.HeaderDatabaseName) }

// SetName sets the database name.
func (h *Header) SetName(name string) {
	h.set(fields.TextField(types.HeaderDatabaseName, name))
}

// Description returns the database description.
func (h *Header) Description() string { return h.text(types.HeaderDatabaseDesc) }

// SetDescription sets the database description.
func (h *Header) SetDescription(desc string) {
	h.set(fields.TextField(types.HeaderDatabaseDesc, desc))
}

// LastSaveTime returns the timestamp of the last save, or the zero time.
func (h *Header) LastSaveTime() time.Time {
	f, ok := h.find(types.HeaderLastSaveTime)
	if !ok {
		return time.Time{}
	}
	t, _ := fields.DecodeTime(f)
	return t
}

// LastSaveApp returns the application that performed the last save.
func (h *Header) LastSaveApp() string { return h.text(types.HeaderLastSaveApp) }

// LastSaveUser returns the user who performed the last save.
func (h *Header) LastSaveUser() string { return h.text(types.HeaderLastSaveUser) }

// LastSaveHost returns the host the last save was performed on.
func (h *Header) LastSaveHost() string { return h.text(types.HeaderLastSaveHost) }

// StampLastSave records who saved the database, with, and when.
func (h *Header) StampLastSave(app, user, host string, when time.Time) {
	h.set(fields.EncodeTime(types.HeaderLastSaveTime, when))
	h.set(fields.TextField(types.HeaderLastSaveApp, app))
	h.set(fields.TextField(types.HeaderLastSaveUser, user))
	h.set(fields.TextField(types.HeaderLastSaveHost, host))
}

// Preferences returns the raw non-default-preferences blob. The field is
// treated as opaque: its internal serialization order is writer-specific,
// so it is stored and replayed byte for byte.
func (h *Header) Preferences() []byte {
	f, ok := h.find(types.HeaderNonDefaultPrefs)
	if !ok {
		return nil
	}
	return f.Clone().Value
}

// SetPreferences replaces the raw preferences blob.
func (h *Header) SetPreferences(raw []byte) {
	h.set(types.NewField(types.HeaderNonDefaultPrefs, raw))
}

// EmptyGroups returns the empty-group names in parsed order. The field is
// repeatable: one field per group.
func (h *Header) EmptyGroups() []string {
	var out []string
	for _, f := range h.fields {
		if f.Type == types.HeaderEmptyGroups {
			if s, err := fields.DecodeText(f); err == nil {
				out = append(out, s)
			}
		}
	}
	return out
}

// AddEmptyGroup appends an empty-group entry at the section end.
func (h *Header) AddEmptyGroup(name string) {
	h.fields = append(h.fields, fields.TextField(types.HeaderEmptyGroups, name))
}
