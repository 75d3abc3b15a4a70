package keygen

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		key, err := Generate()
		if err != nil {
			t.Fatal(err)
		}
		if len(key) != 4 {
			t.Fatalf("len(%q) = %d, want 4", key, len(key))
		}
		for _, c := range key {
			if !strings.ContainsRune(charset, c) {
				t.Fatalf("key %q contains %q outside charset", key, c)
			}
		}
		seen[key] = true
	}
	// 100 draws from a 36^4 space should essentially never all collide.
	if len(seen) < 50 {
		t.Errorf("only %d distinct keys out of 100", len(seen))
	}
}
