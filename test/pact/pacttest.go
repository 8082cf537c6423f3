//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "gift-registry-api"
	ConsumerName = "registry-web"

	StateCatalogSeeded = "catalog seeded with a sold out experience"
	StateOrderMissing  = "no order with session code 991231-ZZZZZ"
)

const (
	CartID              = "4b0c2a3e-5d6f-4a1b-9c8d-7e6f5a4b3c2d"
	AvailableExperience = "patagonia-trek"
	SoldOutExperience   = "glacier-boat"
	MissingSessionCode  = "991231-ZZZZZ"
)

// PactDir is where consumer runs write the contract and provider runs read it.
func PactDir(t testing.TB) string {
	return ensureDir(t, "pacts")
}

// PactFile is the contract between the registry web front end and this API.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir collects pact-go mock server and verifier logs.
func LogDir(t testing.TB) string {
	return ensureDir(t, "bin", "pact-logs")
}

// SeedCatalogFile is the sample catalog both sides of the contract agree on.
func SeedCatalogFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(projectRoot(t), "configs", "catalog.yaml")
}

func ensureDir(t testing.TB, elem ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{projectRoot(t)}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create %s: %v", dir, err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
