package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestFileVault uses deliberately cheap KDF parameters to keep the suite
// fast; production defaults apply only when the config is zero.
func newTestFileVault(t *testing.T) *FileVault {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tokens.vault")
	v, err := NewFileVault(path, []byte("test-device-secret"), FileConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
	})
	if err != nil {
		t.Fatalf("NewFileVault failed: %v", err)
	}
	return v
}

func TestFileVaultRoundTrip(t *testing.T) {
	v := newTestFileVault(t)
	ctx := context.Background()
	pair := Pair{AccessToken: "file-access", RefreshToken: "file-refresh"}

	if err := v.Store(ctx, pair); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	loaded, present, err := v.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !present {
		t.Fatal("expected stored pair to be present")
	}
	if loaded != pair {
		t.Fatalf("round trip mismatch: got %+v want %+v", loaded, pair)
	}
}

func TestFileVaultLoadMissingFile(t *testing.T) {
	v := newTestFileVault(t)

	_, present, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("Load of missing file must not error: %v", err)
	}
	if present {
		t.Fatal("missing file must report absence")
	}
}

func TestFileVaultStoreOverwrites(t *testing.T) {
	v := newTestFileVault(t)
	ctx := context.Background()

	if err := v.Store(ctx, Pair{AccessToken: "old-a", RefreshToken: "old-r"}); err != nil {
		t.Fatalf("first Store failed: %v", err)
	}
	next := Pair{AccessToken: "new-a", RefreshToken: "new-r"}
	if err := v.Store(ctx, next); err != nil {
		t.Fatalf("second Store failed: %v", err)
	}

	loaded, present, err := v.Load(ctx)
	if err != nil || !present {
		t.Fatalf("Load failed: present=%v err=%v", present, err)
	}
	if loaded != next {
		t.Fatalf("expected latest pair, got %+v", loaded)
	}
}

func TestFileVaultClearIdempotent(t *testing.T) {
	v := newTestFileVault(t)
	ctx := context.Background()

	if err := v.Clear(ctx); err != nil {
		t.Fatalf("Clear of empty vault failed: %v", err)
	}

	if err := v.Store(ctx, Pair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := v.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := v.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}

	_, present, err := v.Load(ctx)
	if err != nil || present {
		t.Fatalf("vault must be empty after Clear: present=%v err=%v", present, err)
	}
}

func TestFileVaultTamperedFileFailsClosed(t *testing.T) {
	v := newTestFileVault(t)
	ctx := context.Background()

	if err := v.Store(ctx, Pair{AccessToken: "a-token", RefreshToken: "r-token"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	blob, err := os.ReadFile(v.path)
	if err != nil {
		t.Fatalf("reading vault file failed: %v", err)
	}
	blob[len(blob)-1] ^= 0xFF
	if err := os.WriteFile(v.path, blob, 0o600); err != nil {
		t.Fatalf("writing tampered file failed: %v", err)
	}

	_, present, err := v.Load(ctx)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if present {
		t.Fatal("tampered vault must not report a pair")
	}
}

func TestFileVaultWrongSecretFailsClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.vault")
	cfg := FileConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1}

	writer, err := NewFileVault(path, []byte("secret-one"), cfg)
	if err != nil {
		t.Fatalf("NewFileVault failed: %v", err)
	}
	if err := writer.Store(context.Background(), Pair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	reader, err := NewFileVault(path, []byte("secret-two"), cfg)
	if err != nil {
		t.Fatalf("NewFileVault failed: %v", err)
	}
	if _, _, err := reader.Load(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt under wrong secret, got %v", err)
	}
}

func TestNewFileVaultValidation(t *testing.T) {
	if _, err := NewFileVault("", []byte("secret"), FileConfig{}); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := NewFileVault("/tmp/x", nil, FileConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
