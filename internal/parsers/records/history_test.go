package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

func TestDecodeHistory(t *testing.T) {
	// Enabled, max 3, two entries.
	raw := "10302" +
		"4ec7f2f2" + "0005" + "first" +
		"4ec7f300" + "0006" + "second"
	h, err := DecodeHistory(types.Field{Type: types.RecordPasswordHistory, Value: []byte(raw)})
	require.NoError(t, err)
	assert.True(t, h.Enabled)
	assert.Equal(t, 3, h.MaxSize)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, "first", h.Entries[0].Password)
	assert.Equal(t, int64(0x4ec7f2f2), h.Entries[0].Time.Unix())
	assert.Equal(t, "second", h.Entries[1].Password)
}

func TestDecodeHistoryDisabledEmpty(t *testing.T) {
	h, err := DecodeHistory(types.Field{Value: []byte("00000")})
	require.NoError(t, err)
	assert.False(t, h.Enabled)
	assert.Empty(t, h.Entries)
}

func TestDecodeHistoryErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too short", "100"},
		{"bad flag", "20000"},
		{"bad max size", "1zz00"},
		{"truncated entry header", "1030112345"},
		{"short password", "10301" + "4ec7f2f2" + "00ff" + "tiny"},
		{"trailing bytes", "10300" + "junk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHistory(types.Field{Value: []byte(tt.raw)})
			assert.Error(t, err)
		})
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	h := History{Enabled: true, MaxSize: 5}
	h.Push("one", time.Unix(0x4ec7f2f2, 0))
	h.Push("two", time.Unix(0x4ec7f300, 0))

	f := EncodeHistory(types.RecordPasswordHistory, h)
	got, err := DecodeHistory(f)
	require.NoError(t, err)
	assert.Equal(t, h.Enabled, got.Enabled)
	assert.Equal(t, h.MaxSize, got.MaxSize)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "one", got.Entries[0].Password)
	assert.Equal(t, h.Entries[0].Time.Unix(), got.Entries[0].Time.Unix())
}

func TestEncodeHistoryClampsMaxSizeToFrame(t *testing.T) {
	// The max-size frame is two hex digits; anything wider must be clamped
	// or the encoded field cannot decode itself.
	h := History{Enabled: true, MaxSize: 300}
	h.Push("oldpw", time.Unix(0x4ec7f2f2, 0))

	got, err := DecodeHistory(EncodeHistory(types.RecordPasswordHistory, h))
	require.NoError(t, err)
	assert.Equal(t, 0xff, got.MaxSize)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "oldpw", got.Entries[0].Password)
}

func TestEncodeHistoryClampsEntryCountToFrame(t *testing.T) {
	h := History{Enabled: true}
	for i := 0; i < 400; i++ {
		h.Push("pw", time.Unix(int64(i), 0))
	}
	assert.Len(t, h.Entries, 0xff, "push stays within the frame ceiling even with MaxSize unset")

	h.Entries = nil
	for i := 0; i < 400; i++ {
		h.Entries = append(h.Entries, HistoryEntry{Time: time.Unix(int64(i), 0), Password: "pw"})
	}
	got, err := DecodeHistory(EncodeHistory(types.RecordPasswordHistory, h))
	require.NoError(t, err)
	require.Len(t, got.Entries, 0xff)
	// The newest entries survive.
	assert.Equal(t, int64(399), got.Entries[len(got.Entries)-1].Time.Unix())
	assert.Equal(t, int64(399-0xff+1), got.Entries[0].Time.Unix())
}

func TestEncodeHistoryClampsPasswordLengthToFrame(t *testing.T) {
	long := make([]byte, 0x10010)
	for i := range long {
		long[i] = 'x'
	}
	h := History{Enabled: true, Entries: []HistoryEntry{
		{Time: time.Unix(0x4ec7f2f2, 0), Password: string(long)},
	}}

	got, err := DecodeHistory(EncodeHistory(types.RecordPasswordHistory, h))
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Len(t, got.Entries[0].Password, 0xffff)
}

func TestEncodeHistoryNegativeMaxSize(t *testing.T) {
	h := History{Enabled: true, MaxSize: -1}
	got, err := DecodeHistory(EncodeHistory(types.RecordPasswordHistory, h))
	require.NoError(t, err)
	assert.Equal(t, 0, got.MaxSize)
}

func TestHistoryPushEvictsOldest(t *testing.T) {
	h := History{Enabled: true, MaxSize: 2}
	h.Push("a", time.Unix(1, 0))
	h.Push("b", time.Unix(2, 0))
	h.Push("c", time.Unix(3, 0))

	require.Len(t, h.Entries, 2)
	assert.Equal(t, "b", h.Entries[0].Password)
	assert.Equal(t, "c", h.Entries[1].Password)
}
