package goGate

import (
	"testing"

	"github.com/MrEthical07/goGate/vault"
)

func TestBuildRequiresVault(t *testing.T) {
	_, err := New().WithProfileProvider(&stubProvider{}).Build()
	if err == nil {
		t.Fatal("expected error without a vault")
	}
}

func TestBuildRequiresProvider(t *testing.T) {
	_, err := New().WithVault(vault.NewMemoryVault()).Build()
	if err == nil {
		t.Fatal("expected error without a profile provider")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profile.FetchTimeout = 0

	_, err := New().
		WithConfig(cfg).
		WithVault(vault.NewMemoryVault()).
		WithProfileProvider(&stubProvider{}).
		Build()
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().
		WithVault(vault.NewMemoryVault()).
		WithProfileProvider(&stubProvider{})

	gate, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(gate.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on builder reuse")
	}
}

func TestBuildWithoutConnectivityDisablesReconnect(t *testing.T) {
	gate, err := New().
		WithVault(vault.NewMemoryVault()).
		WithProfileProvider(&stubProvider{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(gate.Close)

	if gate.config.Connectivity.RefreshOnReconnect {
		t.Fatal("reconnect refresh must be disabled without a source")
	}
}
