package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// History is the decoded password-history field: prior passwords with the
// time each one was superseded. On disk it is an ASCII sub-format inside a
// single field value:
//
//	fmmnn, then per entry: tttttttt llll password
//
// where f is '0'/'1' (history off/on), mm is the maximum entry count in
// hex, nn the current entry count in hex, tttttttt the epoch seconds in
// hex, and llll the password length in hex.
type History struct {
	Enabled bool
	MaxSize int
	Entries []HistoryEntry
}

// Frame widths of the sub-format. Two hex digits bound the max size and
// entry count, four bound each password length; larger values would shift
// the framing and corrupt the field.
const (
	maxHistoryEntries     = 0xff
	maxHistoryPasswordLen = 0xffff
)

// HistoryEntry is one retired password.
type HistoryEntry struct {
	Time     time.Time
	Password string
}

// capacity is the effective entry limit: MaxSize when set, otherwise the
// frame ceiling, never above it.
func (h *History) capacity() int {
	if h.MaxSize > 0 && h.MaxSize < maxHistoryEntries {
		return h.MaxSize
	}
	return maxHistoryEntries
}

// Push appends a retired password, evicting the oldest entries beyond the
// effective capacity.
func (h *History) Push(password string, when time.Time) {
	h.Entries = append(h.Entries, HistoryEntry{Time: when, Password: password})
	if over := len(h.Entries) - h.capacity(); over > 0 {
		h.Entries = h.Entries[over:]
	}
}

// DecodeHistory parses the history sub-format out of a field value.
func DecodeHistory(f types.Field) (History, error) {
	s := string(f.Value)
	if len(s) < 5 {
		return History{}, fmt.Errorf("password history header is %d bytes, want at least 5", len(s))
	}
	var h History
	switch s[0] {
	case '0':
	case '1':
		h.Enabled = true
	default:
		return History{}, fmt.Errorf("password history flag is %q, want '0' or '1'", s[0])
	}
	maxSize, err := strconv.ParseUint(s[1:3], 16, 8)
	if err != nil {
		return History{}, fmt.Errorf("password history max size: %w", err)
	}
	count, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return History{}, fmt.Errorf("password history count: %w", err)
	}
	h.MaxSize = int(maxSize)

	rest := s[5:]
	for i := uint64(0); i < count; i++ {
		if len(rest) < 12 {
			return History{}, fmt.Errorf("password history entry %d: header truncated", i)
		}
		secs, err := strconv.ParseUint(rest[:8], 16, 32)
		if err != nil {
			return History{}, fmt.Errorf("password history entry %d time: %w", i, err)
		}
		length, err := strconv.ParseUint(rest[8:12], 16, 16)
		if err != nil {
			return History{}, fmt.Errorf("password history entry %d length: %w", i, err)
		}
		rest = rest[12:]
		if uint64(len(rest)) < length {
			return History{}, fmt.Errorf("password history entry %d: %d password bytes declared, %d remain",
				i, length, len(rest))
		}
		h.Entries = append(h.Entries, HistoryEntry{
			Time:     time.Unix(int64(secs), 0).UTC(),
			Password: rest[:length],
		})
		rest = rest[length:]
	}
	if len(rest) != 0 {
		return History{}, fmt.Errorf("password history has %d trailing bytes", len(rest))
	}
	return h, nil
}

// EncodeHistory serializes the history sub-format into a field. Values
// wider than their frame allows are clamped: max size caps at 0xff, only
// the newest 0xff entries are kept, and passwords are cut to 0xffff bytes.
func EncodeHistory(code uint8, h History) types.Field {
	var b strings.Builder
	flag := byte('0')
	if h.Enabled {
		flag = '1'
	}
	maxSize := h.MaxSize
	if maxSize > maxHistoryEntries {
		maxSize = maxHistoryEntries
	}
	if maxSize < 0 {
		maxSize = 0
	}
	entries := h.Entries
	if len(entries) > maxHistoryEntries {
		entries = entries[len(entries)-maxHistoryEntries:]
	}
	fmt.Fprintf(&b, "%c%02x%02x", flag, maxSize, len(entries))
	for _, e := range entries {
		password := e.Password
		if len(password) > maxHistoryPasswordLen {
			password = password[:maxHistoryPasswordLen]
		}
		fmt.Fprintf(&b, "%08x%04x%s", uint32(e.Time.Unix()), len(password), password)
	}
	return types.NewField(code, []byte(b.String()))
}
