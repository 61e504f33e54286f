package records

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pwsafe/internal/parsers/fields"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

func pad() *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{0}, 8192))
}

func encodeFields(t *testing.T, fs ...types.Field) []byte {
	t.Helper()
	enc := fields.NewEncoder(pad())
	for _, f := range fs {
		require.NoError(t, enc.Append(f))
	}
	return enc.Bytes()
}

func testRecordFields(u uuid.UUID) []types.Field {
	return []types.Field{
		fields.EncodeUUID(types.RecordUUID, u),
		fields.TextField(types.RecordGroup, "finance"),
		fields.TextField(types.RecordTitle, "Bank"),
		fields.TextField(types.RecordUsername, "alice"),
		fields.TextField(types.RecordPassword, "p@ss"),
		fields.EncodeTime(types.RecordCreationTime, time.Unix(1321696754, 0)),
		types.Field{Type: types.RecordEnd},
	}
}

func TestParseTypicalRecord(t *testing.T) {
	u := uuid.New()
	plaintext := encodeFields(t, testRecordFields(u)...)

	r, err := Parse(fields.NewDecoder(plaintext))
	require.NoError(t, err)
	assert.Equal(t, u, r.UUID())
	assert.Equal(t, "finance", r.Group())
	assert.Equal(t, "Bank", r.Title())
	assert.Equal(t, "alice", r.Username())
	assert.Equal(t, "p@ss", r.Password())
	assert.Equal(t, int64(1321696754), r.CreationTime().Unix())
	assert.Empty(t, r.UnknownFields())
}

func TestParseRequiresUUID(t *testing.T) {
	plaintext := encodeFields(t,
		fields.TextField(types.RecordTitle, "Bank"),
		types.Field{Type: types.RecordEnd},
	)
	_, err := Parse(fields.NewDecoder(plaintext))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrCorruptHeader))
}

func TestParseRejectsDuplicateKnownField(t *testing.T) {
	plaintext := encodeFields(t,
		fields.EncodeUUID(types.RecordUUID, uuid.New()),
		fields.TextField(types.RecordTitle, "one"),
		fields.TextField(types.RecordTitle, "two"),
		types.Field{Type: types.RecordEnd},
	)
	_, err := Parse(fields.NewDecoder(plaintext))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateField))
}

func TestParseAllowsDuplicateUnknownField(t *testing.T) {
	plaintext := encodeFields(t,
		fields.EncodeUUID(types.RecordUUID, uuid.New()),
		types.Field{Type: 0x7e, Value: []byte{1}},
		types.Field{Type: 0x7e, Value: []byte{2}},
		types.Field{Type: types.RecordEnd},
	)
	r, err := Parse(fields.NewDecoder(plaintext))
	require.NoError(t, err)
	assert.Len(t, r.UnknownFields(), 2)
}

func TestParseMissingEndMarker(t *testing.T) {
	plaintext := encodeFields(t,
		fields.EncodeUUID(types.RecordUUID, uuid.New()),
	)
	_, err := Parse(fields.NewDecoder(plaintext))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTruncatedStream))
}

func TestParseAll(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	all := append(testRecordFields(u1), testRecordFields(u2)...)
	plaintext := encodeFields(t, all...)

	rs, err := ParseAll(fields.NewDecoder(plaintext))
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, u1, rs[0].UUID())
	assert.Equal(t, u2, rs[1].UUID())
}

func TestParseAllEmptyStream(t *testing.T) {
	rs, err := ParseAll(fields.NewDecoder(nil))
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestRoundTripPreservesFieldOrder(t *testing.T) {
	u := uuid.New()
	original := append([]types.Field{
		fields.EncodeUUID(types.RecordUUID, u),
		{Type: 0x7f, Value: []byte{0xde, 0xad}},
		fields.TextField(types.RecordTitle, "Bank"),
		fields.TextField(types.RecordPassword, "p@ss"),
	}, types.Field{Type: types.RecordEnd})
	plaintext := encodeFields(t, original...)

	r, err := Parse(fields.NewDecoder(plaintext))
	require.NoError(t, err)

	enc := fields.NewEncoder(pad())
	require.NoError(t, r.AppendTo(enc))

	dec := fields.NewDecoder(enc.Bytes())
	var got []types.Field
	for {
		f, ok, err := dec.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, f)
	}
	require.Len(t, got, len(original))
	for i, want := range original {
		assert.Equal(t, want.Type, got[i].Type, "field %d", i)
	}
	// The unknown field kept its position between uuid and title.
	assert.Equal(t, uint8(0x7f), got[1].Type)
	assert.Equal(t, []byte{0xde, 0xad}, got[1].Value)
}

func TestNewRecord(t *testing.T) {
	r, err := New("Bank", "alice", "p@ss")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, r.UUID())
	assert.Equal(t, "Bank", r.Title())
	assert.Equal(t, "alice", r.Username())
	assert.Equal(t, "p@ss", r.Password())
	assert.False(t, r.CreationTime().IsZero())
}

func TestSetTextMutators(t *testing.T) {
	r, err := New("Bank", "", "pw")
	require.NoError(t, err)
	assert.Empty(t, r.Username())

	r.SetUsername("bob")
	assert.Equal(t, "bob", r.Username())
	r.SetUsername("")
	assert.Empty(t, r.Username())

	r.SetURL("https://example.com")
	r.SetNotes("note")
	r.SetEmail("b@example.com")
	assert.Equal(t, "https://example.com", r.URL())
	assert.Equal(t, "note", r.Notes())
	assert.Equal(t, "b@example.com", r.Email())
}

func TestSetPasswordStampsModTime(t *testing.T) {
	r, err := New("Bank", "", "old")
	require.NoError(t, err)
	require.True(t, r.PasswordModTime().IsZero())

	r.SetPassword("new")
	assert.Equal(t, "new", r.Password())
	assert.False(t, r.PasswordModTime().IsZero())
}

func TestSetPasswordPushesHistory(t *testing.T) {
	r, err := New("Bank", "", "first")
	require.NoError(t, err)
	r.EnablePasswordHistory(3)

	r.SetPassword("second")
	r.SetPassword("third")

	h, err := r.PasswordHistory()
	require.NoError(t, err)
	assert.True(t, h.Enabled)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "first", h.Entries[0].Password)
	assert.Equal(t, "second", h.Entries[1].Password)
}

func TestProtectedFlag(t *testing.T) {
	plaintext := encodeFields(t,
		fields.EncodeUUID(types.RecordUUID, uuid.New()),
		types.Field{Type: types.RecordProtected, Value: []byte{1}},
		types.Field{Type: types.RecordEnd},
	)
	r, err := Parse(fields.NewDecoder(plaintext))
	require.NoError(t, err)
	assert.True(t, r.Protected())
}
