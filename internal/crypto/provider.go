package crypto

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/twofish"

	"github.com/deploymenttheory/go-pwsafe/internal/interfaces"
	"github.com/deploymenttheory/go-pwsafe/internal/types"
)

// twofishProvider implements interfaces.PrimitiveProvider with Twofish for
// the block cipher and SHA-256 for hashing and the HMAC, as the v3 format
// requires.
type twofishProvider struct{}

// NewTwofishProvider returns the production primitive provider.
func NewTwofishProvider() interfaces.PrimitiveProvider {
	return &twofishProvider{}
}

func (p *twofishProvider) Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func (p *twofishProvider) NewHMAC(key []byte) hash.Hash {
	return hmac.New(sha256.New, key)
}

func (p *twofishProvider) CBCEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlockCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != types.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", types.BlockSize, len(iv))
	}
	if len(plaintext)%types.BlockSize != 0 {
		return nil, fmt.Errorf("plaintext length %d is not a multiple of the block size", len(plaintext))
	}
	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plaintext)
	return out, nil
}

func (p *twofishProvider) CBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlockCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != types.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", types.BlockSize, len(iv))
	}
	if len(ciphertext)%types.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

func (p *twofishProvider) ECBEncrypt(key, src []byte) ([]byte, error) {
	return p.ecb(key, src, func(b cipher.Block, dst, blk []byte) { b.Encrypt(dst, blk) })
}

func (p *twofishProvider) ECBDecrypt(key, src []byte) ([]byte, error) {
	return p.ecb(key, src, func(b cipher.Block, dst, blk []byte) { b.Decrypt(dst, blk) })
}

func (p *twofishProvider) ecb(key, src []byte, op func(cipher.Block, []byte, []byte)) ([]byte, error) {
	block, err := newBlockCipher(key)
	if err != nil {
		return nil, err
	}
	if len(src)%types.BlockSize != 0 {
		return nil, fmt.Errorf("input length %d is not a multiple of the block size", len(src))
	}
	out := make([]byte, len(src))
	for off := 0; off < len(src); off += types.BlockSize {
		op(block, out[off:off+types.BlockSize], src[off:off+types.BlockSize])
	}
	return out, nil
}

func (p *twofishProvider) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

func newBlockCipher(key []byte) (cipher.Block, error) {
	block, err := twofish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating twofish cipher: %w", err)
	}
	return block, nil
}
