package testsupport

import (
	"os"
	"testing"
)

// LoadFixture reads a test fixture file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MustLoadFixture reads a fixture or fails the test.
func MustLoadFixture(t testing.TB, path string) []byte {
	t.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture %s: %v", path, err)
	}
	return data
}
