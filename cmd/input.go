package cmd

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/deploymenttheory/go-pwsafe/internal/crypto"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// promptPassphrase reads the master passphrase from the terminal without
// echo. With confirm set, it prompts twice and requires both entries to
// match. The caller wipes the returned bytes.
func promptPassphrase(confirm bool) ([]byte, error) {
	fmt.Fprint(os.Stderr, "Safe passphrase: ")
	passphrase, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("empty passphrase")
	}
	if !confirm {
		return passphrase, nil
	}

	fmt.Fprint(os.Stderr, "Repeat passphrase: ")
	again, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		wipe(passphrase)
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	defer wipe(again)
	if !bytes.Equal(passphrase, again) {
		wipe(passphrase)
		return nil, fmt.Errorf("passphrases do not match")
	}
	return passphrase, nil
}

// promptSecret reads a single secret value, such as an entry password,
// without echo.
func promptSecret(label string) ([]byte, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}
	return secret, nil
}

func wipe(b []byte) {
	crypto.Zeroize(b)
}
