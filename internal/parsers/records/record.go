// Package records implements the typed record model: one password entry per
// record, decoded from the TLV stream between the end-of-header marker and
// the end of the body. Field order is retained for byte-faithful round
// trips; unknown type codes are preserved verbatim.
package records

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/fields"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Record is one password entry. The end-of-record marker is implicit and
// re-added on serialization.
type Record struct {
	fields []types.Field
}

// Parse consumes one record from src, up to and including its end marker.
// The UUID field is mandatory. Known non-repeatable types occurring twice
// abort with types.ErrDuplicateField; unknown types may repeat, since their
// repeatability is not ours to judge.
func Parse(src interfaces.FieldSource) (*Record, error) {
	first, ok, err := src.Next()
	if err != nil {
		return nil, fmt.Errorf("record field: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no record data", types.ErrTruncatedStream)
	}
	return parseAfterFirst(src, first)
}

// ParseAll consumes records until the field source is exhausted.
func ParseAll(src interfaces.FieldSource) ([]*Record, error) {
	var out []*Record
	for {
		// Peek at exhaustion by attempting a parse only when data remains;
		// the decoder reports a clean end with ok=false before any record
		// starts, and a truncation error mid-record.
		f, ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		r, err := parseAfterFirst(src, f)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(out), err)
		}
		out = append(out, r)
	}
}

// parseAfterFirst finishes a record whose first field was already read.
func parseAfterFirst(src interfaces.FieldSource, first types.Field) (*Record, error) {
	if first.IsEndMarker() {
		return nil, fmt.Errorf("%w: record has no uuid field", types.ErrCorruptHeader)
	}
	r := &Record{}
	seen := map[uint8]bool{first.Type: true}
	if err := validateField(first); err != nil {
		return nil, err
	}
	r.fields = append(r.fields, first)
	for {
		f, ok, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("record field: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: record ended without end marker", types.ErrTruncatedStream)
		}
		if f.IsEndMarker() {
			break
		}
		if seen[f.Type] && types.KnownRecordField(f.Type) {
			return nil, fmt.Errorf("%w: record %s (0x%02x)", types.ErrDuplicateField,
				types.RecordFieldName(f.Type), f.Type)
		}
		seen[f.Type] = true
		if err := validateField(f); err != nil {
			return nil, err
		}
		r.fields = append(r.fields, f)
	}
	if _, ok := r.find(types.RecordUUID); !ok {
		return nil, fmt.Errorf("%w: record has no uuid field", types.ErrCorruptHeader)
	}
	return r, nil
}

func validateField(f types.Field) error {
	switch f.Type {
	case types.RecordUUID:
		if _, err := fields.DecodeUUID(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	case types.RecordCreationTime, types.RecordPasswordModTime, types.RecordLastAccessTime,
		types.RecordLastModTime, types.RecordPasswordExpiryTime:
		if _, err := fields.DecodeTime(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	case types.RecordGroup, types.RecordTitle, types.RecordUsername, types.RecordNotes,
		types.RecordPassword, types.RecordEmail:
		if _, err := fields.DecodeText(f); err != nil {
			return fmt.Errorf("%w: %v", types.ErrCorruptHeader, err)
		}
	}
	return nil
}

// New builds a record with a fresh UUID, the mandatory title and password,
// and a creation timestamp.
func New(title, username, password string) (*Record, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating record uuid: %w", err)
	}
	r := &Record{fields: []types.Field{
		fields.EncodeUUID(types.RecordUUID, u),
		fields.TextField(types.RecordTitle, title),
	}}
	if username != "" {
		r.fields = append(r.fields, fields.TextField(types.RecordUsername, username))
	}
	r.fields = append(r.fields,
		fields.TextField(types.RecordPassword, password),
		fields.EncodeTime(types.RecordCreationTime, time.Now()),
	)
	return r, nil
}

// AppendTo serializes all fields in retained order, then the end marker.
func (r *Record) AppendTo(sink interfaces.FieldSink) error {
	for _, f := range r.fields {
		if err := sink.Append(f); err != nil {
			return fmt.Errorf("encoding record %s: %w", types.RecordFieldName(f.Type), err)
		}
	}
	if err := sink.Append(types.Field{Type: types.RecordEnd}); err != nil {
		return fmt.Errorf("encoding end-of-record: %w", err)
	}
	return nil
}

// Fields returns the retained fields in parsed order, without the end
// marker. The slice and its values are copies.
func (r *Record) Fields() []types.Field {
	out := make([]types.Field, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.Clone()
	}
	return out
}

// UnknownFields returns preserved fields with unrecognized type codes.
func (r *Record) UnknownFields() []types.Field {
	var out []types.Field
	for _, f := range r.fields {
		if !types.KnownRecordField(f.Type) {
			out = append(out, f.Clone())
		}
	}
	return out
}

func (r *Record) find(code uint8) (types.Field, bool) {
	for _, f := range r.fields {
		if f.Type == code {
			return f, true
		}
	}
	return types.Field{}, false
}

// set replaces the first field of the given type in place, or appends at
// the section end. New fields go last, per the format's ordering rule.
func (r *Record) set(f types.Field) {
	for i := range r.fields {
		if r.fields[i].Type == f.Type {
			r.fields[i] = f
			return
		}
	}
	r.fields = append(r.fields, f)
}

// remove drops the first field of the given type, if present.
func (r *Record) remove(code uint8) {
	for i := range r.fields {
		if r.fields[i].Type == code {
			r.fields = append(r.fields[:i], r.fields[i+1:]...)
			return
		}
	}
}

// UUID returns the record identifier.
func (r *Record) UUID() uuid.UUID {
	f, ok := r.find(types.RecordUUID)
	if !ok {
		return uuid.Nil
	}
	u, _ := fields.DecodeUUID(f)
	return u
}

// SetUUID replaces the record identifier.
func (r *Record) SetUUID(u uuid.UUID) {
	r.set(fields.EncodeUUID(types.RecordUUID, u))
}

func (r *Record) text(code uint8) string {
	f, ok := r.find(code)
	if !ok {
		return ""
	}
	s, _ := fields.DecodeText(f)
	return s
}

func (r *Record) setText(code uint8, s string) {
	if s == "" {
		r.remove(code)
		return
	}
	r.set(fields.TextField(code, s))
}

// Title returns the entry title.
func (r *Record) Title() string { return r.text(types.RecordTitle) }

// SetTitle sets the entry title. Titles are mandatory and cannot be removed.
func (r *Record) SetTitle(s string) { r.set(fields.TextField(types.RecordTitle, s)) }

// Group returns the dot-separated group path.
func (r *Record) Group() string { return r.text(types.RecordGroup) }

// SetGroup sets the group path; empty removes the field.
func (r *Record) SetGroup(s string) { r.setText(types.RecordGroup, s) }

// Username returns the account username.
func (r *Record) Username() string { return r.text(types.RecordUsername) }

// SetUsername sets the username; empty removes the field.
func (r *Record) SetUsername(s string) { r.setText(types.RecordUsername, s) }

// Password returns the current password.
func (r *Record) Password() string { return r.text(types.RecordPassword) }

// SetPassword replaces the current password and stamps the password
// modification time. The previous password is pushed into the history
// field when history saving is enabled for this record.
func (r *Record) SetPassword(s string) {
	now := time.Now()
	if prev := r.Password(); prev != "" {
		if h, err := r.PasswordHistory(); err == nil && h.Enabled {
			h.Push(prev, r.PasswordModTimeOr(now))
			r.set(EncodeHistory(types.RecordPasswordHistory, h))
		}
	}
	r.set(fields.TextField(types.RecordPassword, s))
	r.set(fields.EncodeTime(types.RecordPasswordModTime, now))
}

// Notes returns the free-form notes.
func (r *Record) Notes() string { return r.text(types.RecordNotes) }

// SetNotes sets the notes; empty removes the field.
func (r *Record) SetNotes(s string) { r.setText(types.RecordNotes, s) }

// URL returns the associated URL.
func (r *Record) URL() string { return r.text(types.RecordURL) }

// SetURL sets the URL; empty removes the field.
func (r *Record) SetURL(s string) { r.setText(types.RecordURL, s) }

// Email returns the contact email address.
func (r *Record) Email() string { return r.text(types.RecordEmail) }

// SetEmail sets the email; empty removes the field.
func (r *Record) SetEmail(s string) { r.setText(types.RecordEmail, s) }

// Autotype returns the autotype string.
func (r *Record) Autotype() string { return r.text(types.RecordAutotype) }

// RunCommand returns the run-command string.
func (r *Record) RunCommand() string { return r.text(types.RecordRunCommand) }

// PasswordPolicy returns the raw policy string, empty when unset.
func (r *Record) PasswordPolicy() string { return r.text(types.RecordPasswordPolicy) }

// PasswordPolicyName returns the named-policy reference, empty when unset.
func (r *Record) PasswordPolicyName() string { return r.text(types.RecordPasswordPolicyName) }

// Protected reports whether the entry is marked read-only in the UI.
func (r *Record) Protected() bool {
	f, ok := r.find(types.RecordProtected)
	return ok && len(f.Value) > 0 && f.Value[0] != 0
}

func (r *Record) timeField(code uint8) time.Time {
	f, ok := r.find(code)
	if !ok {
		return time.Time{}
	}
	t, _ := fields.DecodeTime(f)
	return t
}

// CreationTime returns when the entry was created, or the zero time.
func (r *Record) CreationTime() time.Time { return r.timeField(types.RecordCreationTime) }

// PasswordModTime returns when the password last changed, or the zero time.
func (r *Record) PasswordModTime() time.Time { return r.timeField(types.RecordPasswordModTime) }

// PasswordModTimeOr returns the password modification time, falling back
// to the given time when the field is absent.
func (r *Record) PasswordModTimeOr(fallback time.Time) time.Time {
	if t := r.PasswordModTime(); !t.IsZero() {
		return t
	}
	return fallback
}

// LastAccessTime returns when the entry was last read, or the zero time.
func (r *Record) LastAccessTime() time.Time { return r.timeField(types.RecordLastAccessTime) }

// LastModTime returns when a non-password field last changed, or the zero
// time.
func (r *Record) LastModTime() time.Time { return r.timeField(types.RecordLastModTime) }

// ExpiryTime returns when the password expires, or the zero time for
// never.
func (r *Record) ExpiryTime() time.Time { return r.timeField(types.RecordPasswordExpiryTime) }

// SetExpiryTime sets the password expiry timestamp.
func (r *Record) SetExpiryTime(t time.Time) {
	r.set(fields.EncodeTime(types.RecordPasswordExpiryTime, t))
}

// PasswordHistory decodes the history field. Absent history decodes to a
// disabled, empty History.
func (r *Record) PasswordHistory() (History, error) {
	f, ok := r.find(types.RecordPasswordHistory)
	if !ok {
		return History{}, nil
	}
	return DecodeHistory(f)
}

// EnablePasswordHistory turns history keeping on with the given capacity.
func (r *Record) EnablePasswordHistory(maxSize int) {
	h, err := r.PasswordHistory()
	if err != nil {
		h = History{}
	}
	h.Enabled = true
	h.MaxSize = maxSize
	r.set(EncodeHistory(types.RecordPasswordHistory, h))
}
