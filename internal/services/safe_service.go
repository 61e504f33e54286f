// Package services implements the file engine: the orchestrated pipeline
// that turns raw safe bytes into a verified Database and back. A Database
// is handed to callers only after the whole file has parsed and its
// integrity digest has verified; every failure aborts the open outright.
//
// A Database is not safe for concurrent mutation. Callers serialize access
// themselves; distinct Databases are fully independent.
package services

import (
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-pwsafe/internal/crypto"
	"github.com/deploymenttheory/go-pwsafe/internal/integrity"
	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/kdf"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/fields"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/header"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/prologue"
	"github.com/deploymenttheory/go-pwsafe/internal/parsers/records"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// Database is an open, verified safe: one header, an ordered record list,
// and the session keys for the current session. The keys live only as long
// as the Database; Close wipes them.
type Database struct {
	provider interfaces.PrimitiveProvider

	hdr  *header.Header
	recs []*records.Record

	salt       []byte
	iterations uint32
	stretched  []byte // P', kept so Save can re-wrap the session keys
	dataKey    []byte // K
	hmacKey    []byte // L

	closed bool
}

// Open reads and decodes the safe at path.
func Open(path string, passphrase []byte, opts OpenOptions) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading safe file: %w", err)
	}
	return Decode(data, passphrase, opts)
}

// Decode runs the open pipeline over in-memory file bytes:
//
//	Unopened → PrologueRead → KeysDerived → Decrypting → Parsed → Verified
//
// Any failure wipes the derived keys and returns without exposing a
// partially populated Database.
func Decode(data, passphrase []byte, opts OpenOptions) (db *Database, err error) {
	p := crypto.NewTwofishProvider()
	st := stateUnopened
	fail := func(err error) error {
		return fmt.Errorf("opening safe (%s): %w", st, err)
	}

	st = statePrologueRead
	pro, body, storedDigest, err := prologue.Split(data)
	if err != nil {
		return nil, fail(err)
	}

	st = stateKeysDerived
	if err := kdf.ValidateIterations(pro.Iterations, opts.minIterations()); err != nil {
		return nil, fail(err)
	}
	stretched := kdf.StretchKey(p, passphrase, pro.Salt, pro.Iterations)
	if !kdf.VerifyCheckValue(p, stretched, pro.Check) {
		crypto.Zeroize(stretched)
		return nil, fail(types.ErrWrongPassphrase)
	}
	dataKey, hmacKey, err := kdf.RecoverSessionKeys(p, stretched, pro.B1B2, pro.B3B4)
	if err != nil {
		crypto.Zeroize(stretched)
		return nil, fail(err)
	}

	// Wipe key material on any failure past this point.
	defer func() {
		if err != nil {
			crypto.ZeroizeAll(stretched, dataKey, hmacKey)
		}
	}()

	st = stateDecrypting
	plaintext, err := p.CBCDecrypt(dataKey, pro.IV, body)
	if err != nil {
		return nil, fail(err)
	}
	// The field models copy every value out of the stream, so the decrypted
	// buffer can be wiped once parsing is done.
	defer crypto.Zeroize(plaintext)

	st = stateParsed
	src := fields.NewDecoder(plaintext)
	hdr, err := header.Parse(src)
	if err != nil {
		return nil, fail(err)
	}
	recs, err := records.ParseAll(src)
	if err != nil {
		return nil, fail(err)
	}

	st = stateVerified
	engine := integrity.New(p, hmacKey)
	engine.AddFields(hdr.Fields())
	for _, r := range recs {
		engine.AddFields(r.Fields())
	}
	if err := engine.Verify(storedDigest); err != nil {
		return nil, fail(err)
	}

	return &Database{
		provider:   p,
		hdr:        hdr,
		recs:       recs,
		salt:       pro.Salt,
		iterations: pro.Iterations,
		stretched:  stretched,
		dataKey:    dataKey,
		hmacKey:    hmacKey,
	}, nil
}

// Header returns the safe's header model for inspection and mutation.
func (db *Database) Header() *header.Header {
	return db.hdr
}

// Iterations returns the key-stretch round count the safe carries.
func (db *Database) Iterations() uint32 {
	return db.iterations
}

// Len returns the number of records.
func (db *Database) Len() int {
	return len(db.recs)
}

// Records returns the records in file order. The slice is a copy; the
// records are the live instances, so edits through them are saved.
func (db *Database) Records() []*records.Record {
	out := make([]*records.Record, len(db.recs))
	copy(out, db.recs)
	return out
}

// FindRecord returns the first record with the given UUID.
func (db *Database) FindRecord(u uuid.UUID) (*records.Record, error) {
	for _, r := range db.recs {
		if r.UUID() == u {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrRecordNotFound, u)
}

// AddRecord appends a record at the end of the record list, the format's
// position for new entries.
func (db *Database) AddRecord(r *records.Record) {
	db.recs = append(db.recs, r)
}

// RemoveRecord deletes the record with the given UUID.
func (db *Database) RemoveRecord(u uuid.UUID) error {
	for i, r := range db.recs {
		if r.UUID() == u {
			db.recs = append(db.recs[:i], db.recs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", types.ErrRecordNotFound, u)
}

// Close wipes the session keys. The Database must not be used afterwards.
// Safe to call more than once.
func (db *Database) Close() {
	if db.closed {
		return
	}
	crypto.ZeroizeAll(db.stretched, db.dataKey, db.hmacKey)
	db.closed = true
}

// Validate runs data-quality checks that are deliberately not parse
// errors. Duplicate record UUIDs are accepted on read so foreign files can
// always be inspected, but they are flagged here.
func (db *Database) Validate() []Warning {
	var warnings []Warning
	seen := make(map[uuid.UUID]bool, len(db.recs))
	for _, r := range db.recs {
		u := r.UUID()
		if seen[u] {
			warnings = append(warnings, Warning{
				UUID:    u,
				Message: "uuid shared by more than one record",
			})
		}
		seen[u] = true
		if r.Title() == "" {
			warnings = append(warnings, Warning{UUID: u, Message: "record has no title"})
		}
	}
	return warnings
}
