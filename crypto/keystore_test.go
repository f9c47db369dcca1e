package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

func TestKeystoreRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "wallet.key")

	if err := saveToKeystore(path, key, "hunter2", keystore.LightScryptN, keystore.LightScryptP); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("keystore must not be world-readable: %v", info.Mode().Perm())
	}

	// The file on disk is ciphertext, not raw key material.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty keystore file")
	}

	restored, err := LoadFromKeystore(path, "hunter2")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if restored.PubKey().Address() != key.PubKey().Address() {
		t.Fatalf("restored key derives a different address")
	}

	if _, err := LoadFromKeystore(path, "wrong"); err == nil {
		t.Fatalf("wrong passphrase must be rejected")
	}
}

func TestKeystoreRejectsBadInputs(t *testing.T) {
	if err := SaveToKeystore("", &PrivateKey{}, "pass"); err == nil {
		t.Fatalf("empty path must be rejected")
	}
	if err := SaveToKeystore(filepath.Join(t.TempDir(), "w.key"), nil, "pass"); err == nil {
		t.Fatalf("nil key must be rejected")
	}
	if _, err := LoadFromKeystore("", "pass"); err == nil {
		t.Fatalf("empty path must be rejected")
	}
	if _, err := LoadFromKeystore(filepath.Join(t.TempDir(), "missing.key"), "pass"); err == nil {
		t.Fatalf("missing file must be rejected")
	}
}

func TestKeystoreOverwritesExistingFile(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "wallet.key")
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := saveToKeystore(path, key, "pass", keystore.LightScryptN, keystore.LightScryptP); err != nil {
		t.Fatalf("save over existing file failed: %v", err)
	}
	restored, err := LoadFromKeystore(path, "pass")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if restored.PubKey().Address() != key.PubKey().Address() {
		t.Fatalf("restored key mismatch")
	}
}
