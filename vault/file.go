package vault

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// fileMagic versions the on-disk layout; bump it for incompatible changes.
var fileMagic = []byte("ggv1")

const fileSaltLength = 16

// FileConfig holds argon2id parameters for the vault file key derivation.
// Zero values fall back to the defaults below.
type FileConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
}

func (c FileConfig) withDefaults() FileConfig {
	if c.Memory == 0 {
		c.Memory = 64 * 1024
	}
	if c.Time == 0 {
		c.Time = 3
	}
	if c.Parallelism == 0 {
		c.Parallelism = 2
	}
	return c
}

// FileVault persists the token pair in a single sealed file. The record is
// encrypted with XChaCha20-Poly1305 under a key derived from the device
// secret, so a torn or tampered file fails authentication instead of
// yielding a half pair.
//
// FileVault instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type FileVault struct {
	path   string
	secret []byte
	cfg    FileConfig
}

// NewFileVault creates a FileVault at path, keyed by the caller-supplied
// device secret (e.g. a keystore-backed random value).
func NewFileVault(path string, deviceSecret []byte, cfg FileConfig) (*FileVault, error) {
	if path == "" {
		return nil, errors.New("vault: file path required")
	}
	if len(deviceSecret) == 0 {
		return nil, errors.New("vault: device secret required")
	}

	secret := make([]byte, len(deviceSecret))
	copy(secret, deviceSecret)

	return &FileVault{
		path:   path,
		secret: secret,
		cfg:    cfg.withDefaults(),
	}, nil
}

func (v *FileVault) deriveKey(salt []byte) []byte {
	return argon2.IDKey(v.secret, salt, v.cfg.Time, v.cfg.Memory, v.cfg.Parallelism, chacha20poly1305.KeySize)
}

// Store seals the pair and replaces the vault file atomically. The temp file
// is synced before rename so a crash leaves either the previous record or the
// new one, never a mix.
func (v *FileVault) Store(ctx context.Context, pair Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	plaintext, err := encodeRecord(pair)
	if err != nil {
		return err
	}

	salt := make([]byte, fileSaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	aead, err := chacha20poly1305.NewX(v.deriveKey(salt))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	blob := make([]byte, 0, len(fileMagic)+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	blob = append(blob, fileMagic...)
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, plaintext, fileMagic)

	tmp, err := os.CreateTemp(filepath.Dir(v.path), ".ggv-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, v.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Load opens and unseals the vault file. A missing file reports absence, not
// an error; an unreadable or unauthenticated file reports ErrCorrupt or
// ErrUnavailable and the caller must fail closed.
func (v *FileVault) Load(ctx context.Context) (Pair, bool, error) {
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}

	blob, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Pair{}, false, nil
		}
		return Pair{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	headerLen := len(fileMagic) + fileSaltLength + chacha20poly1305.NonceSizeX
	if len(blob) < headerLen {
		return Pair{}, false, fmt.Errorf("%w: short file", ErrCorrupt)
	}
	if string(blob[:len(fileMagic)]) != string(fileMagic) {
		return Pair{}, false, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}

	salt := blob[len(fileMagic) : len(fileMagic)+fileSaltLength]
	nonce := blob[len(fileMagic)+fileSaltLength : headerLen]
	sealed := blob[headerLen:]

	aead, err := chacha20poly1305.NewX(v.deriveKey(salt))
	if err != nil {
		return Pair{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	plaintext, err := aead.Open(nil, nonce, sealed, fileMagic)
	if err != nil {
		return Pair{}, false, fmt.Errorf("%w: authentication failed", ErrCorrupt)
	}

	pair, err := decodeRecord(plaintext)
	if err != nil {
		return Pair{}, false, err
	}

	return pair, true, nil
}

// Clear removes the vault file. Clearing an already-empty vault succeeds.
func (v *FileVault) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
