package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-pwsafe/internal/parsers/records"
)

// stubPasswords replaces the terminal reader with a scripted sequence.
func stubPasswords(t *testing.T, entries ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	i := 0
	readPassword = func(fd int) ([]byte, error) {
		if i >= len(entries) {
			return nil, errors.New("no more scripted entries")
		}
		entry := entries[i]
		i++
		return []byte(entry), nil
	}
}

func TestPromptPassphrase(t *testing.T) {
	stubPasswords(t, "correct horse")
	got, err := promptPassphrase(false)
	require.NoError(t, err)
	assert.Equal(t, []byte("correct horse"), got)
}

func TestPromptPassphraseRejectsEmpty(t *testing.T) {
	stubPasswords(t, "")
	_, err := promptPassphrase(false)
	assert.Error(t, err)
}

func TestPromptPassphraseConfirm(t *testing.T) {
	stubPasswords(t, "correct horse", "correct horse")
	got, err := promptPassphrase(true)
	require.NoError(t, err)
	assert.Equal(t, []byte("correct horse"), got)
}

func TestPromptPassphraseConfirmMismatch(t *testing.T) {
	stubPasswords(t, "correct horse", "incorrect horse")
	_, err := promptPassphrase(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not match")
}

func TestLookupRecord(t *testing.T) {
	bank, err := records.New("Bank", "alice", "pw")
	require.NoError(t, err)
	mail, err := records.New("Mail", "alice", "pw")
	require.NoError(t, err)
	mail2, err := records.New("Mail", "bob", "pw")
	require.NoError(t, err)
	recs := []*records.Record{bank, mail, mail2}

	got, err := lookupRecord(recs, "Bank")
	require.NoError(t, err)
	assert.Equal(t, bank.UUID(), got.UUID())

	got, err = lookupRecord(recs, mail2.UUID().String())
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username())

	_, err = lookupRecord(recs, "Mail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use the uuid")

	_, err = lookupRecord(recs, "Missing")
	assert.Error(t, err)
}
