package services

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/deploymenttheory/go-pwsafe/internal/crypto"
	"github.com/deploymenttheory/go-pwsafe/internal/integrity"
	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/kdf"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/fields"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/header"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/prologue"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// applicationName is written into the last-save header on save.
const applicationName = "go-pwsafe"

// New creates an empty safe keyed to the given passphrase: fresh salt,
// fresh random session keys, a minimal header. Nothing touches disk until
// Save.
func New(passphrase []byte, iterations uint32) (*Database, error) {
	p := crypto.NewTwofishProvider()
	if iterations == 0 {
		iterations = types.DefaultIterations
	}
	if iterations < types.MinIterations {
		return nil, fmt.Errorf("%w: %d requested, minimum is %d",
			types.ErrLowIterations, iterations, types.MinIterations)
	}

	salt, err := p.RandomBytes(types.SaltSize)
	if err != nil {
		return nil, err
	}
	dataKey, err := p.RandomBytes(types.KeySize)
	if err != nil {
		return nil, err
	}
	hmacKey, err := p.RandomBytes(types.KeySize)
	if err != nil {
		return nil, err
	}
	hdr, err := header.New()
	if err != nil {
		return nil, err
	}

	return &Database{
		provider:   p,
		hdr:        hdr,
		salt:       salt,
		iterations: iterations,
		stretched:  kdf.StretchKey(p, passphrase, salt, iterations),
		dataKey:    dataKey,
		hmacKey:    hmacKey,
	}, nil
}

// Encode serializes the safe into file bytes: plaintext field stream with
// random padding, CBC encryption under a freshly generated IV, prologue
// rebuilt from the current salt and keys, and the integrity digest in the
// epilogue.
func (db *Database) Encode(opts SaveOptions) ([]byte, error) {
	if db.closed {
		return nil, fmt.Errorf("safe is closed")
	}
	if !opts.SkipSaveStamp {
		db.stampLastSave()
	}

	enc := fields.NewEncoder(randReader{db.provider})
	if err := db.hdr.AppendTo(enc); err != nil {
		return nil, err
	}
	for _, r := range db.recs {
		if err := r.AppendTo(enc); err != nil {
			return nil, err
		}
	}
	plaintext := enc.Bytes()

	engine := integrity.New(db.provider, db.hmacKey)
	engine.AddFields(db.hdr.Fields())
	for _, r := range db.recs {
		engine.AddFields(r.Fields())
	}
	digest := engine.Sum()

	iv, err := db.provider.RandomBytes(types.BlockSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := db.provider.CBCEncrypt(db.dataKey, iv, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypting body: %w", err)
	}

	b1b2, b3b4, err := kdf.WrapSessionKeys(db.provider, db.stretched, db.dataKey, db.hmacKey)
	if err != nil {
		return nil, err
	}
	pro := &prologue.Prologue{
		Salt:       db.salt,
		Iterations: db.iterations,
		Check:      kdf.CheckValue(db.provider, db.stretched),
		B1B2:       b1b2,
		B3B4:       b3b4,
		IV:         iv,
	}
	proBytes, err := pro.Bytes()
	if err != nil {
		return nil, err
	}
	epilogue, err := prologue.Epilogue(digest)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(len(proBytes) + len(ciphertext) + len(epilogue))
	out.Write(proBytes)
	out.Write(ciphertext)
	out.Write(epilogue)
	return out.Bytes(), nil
}

// Save writes the safe to path with owner-only permissions.
func (db *Database) Save(path string, opts SaveOptions) error {
	data, err := db.Encode(opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing safe file: %w", err)
	}
	return nil
}

// ChangePassphrase re-keys the safe: a fresh salt is generated and the
// stretched key recomputed from the new passphrase. The working keys K and
// L are kept unless newWorkingKeys is set, in which case fresh random
// session keys are generated as well. Nothing touches disk until Save.
func (db *Database) ChangePassphrase(newPassphrase []byte, newWorkingKeys bool) error {
	if db.closed {
		return fmt.Errorf("safe is closed")
	}
	salt, err := db.provider.RandomBytes(types.SaltSize)
	if err != nil {
		return err
	}
	stretched := kdf.StretchKey(db.provider, newPassphrase, salt, db.iterations)

	if newWorkingKeys {
		dataKey, err := db.provider.RandomBytes(types.KeySize)
		if err != nil {
			crypto.Zeroize(stretched)
			return err
		}
		hmacKey, err := db.provider.RandomBytes(types.KeySize)
		if err != nil {
			crypto.ZeroizeAll(stretched, dataKey)
			return err
		}
		crypto.ZeroizeAll(db.dataKey, db.hmacKey)
		db.dataKey = dataKey
		db.hmacKey = hmacKey
	}

	crypto.Zeroize(db.stretched)
	db.salt = salt
	db.stretched = stretched
	return nil
}

// SetIterations changes the key-stretch round count for subsequent saves.
// The stretched key depends on it, so the passphrase is required.
func (db *Database) SetIterations(passphrase []byte, iterations uint32) error {
	if iterations < types.MinIterations {
		return fmt.Errorf("%w: %d requested, minimum is %d",
			types.ErrLowIterations, iterations, types.MinIterations)
	}
	if !kdf.VerifyCheckValue(db.provider,
		kdf.StretchKey(db.provider, passphrase, db.salt, db.iterations),
		kdf.CheckValue(db.provider, db.stretched)) {
		return types.ErrWrongPassphrase
	}
	stretched := kdf.StretchKey(db.provider, passphrase, db.salt, iterations)
	crypto.Zeroize(db.stretched)
	db.stretched = stretched
	db.iterations = iterations
	return nil
}

func (db *Database) stampLastSave() {
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	host, _ := os.Hostname()
	db.hdr.StampLastSave(applicationName, username, host, time.Now())
}

// randReader adapts the primitive provider's randomness to io.Reader for
// the field encoder's padding.
type randReader struct {
	p interfaces.PrimitiveProvider
}

func (r randReader) Read(b []byte) (int, error) {
	buf, err := r.p.RandomBytes(len(b))
	if err != nil {
		return 0, err
	}
	copy(b, buf)
	return len(b), nil
}
