package security

import (
	"strings"
	"testing"
)

func fastConfig() Argon2Config {
	return Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  8,
		KeyLength:   16,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewHasher(fastConfig())
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := hasher.Verify("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching password to verify")
	}

	ok, err = hasher.Verify("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher, _ := NewHasher(fastConfig())

	first, err := hasher.Hash("password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	second, err := hasher.Hash("password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyUsesEmbeddedParameters(t *testing.T) {
	old, _ := NewHasher(fastConfig())
	encoded, err := old.Hash("password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	// A hasher with bumped parameters still verifies the old hash.
	current, _ := NewHasher(DefaultArgon2Config())
	ok, err := current.Verify("password", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected hash created under old parameters to verify")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	hasher, _ := NewHasher(fastConfig())

	if _, err := hasher.Verify("password", "not-an-argon2-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}

	ok, err := hasher.Verify("", "whatever")
	if err != nil || ok {
		t.Fatalf("expected empty password to fail cleanly, got ok=%v err=%v", ok, err)
	}
}

func TestNewHasherValidatesConfig(t *testing.T) {
	bad := fastConfig()
	bad.Memory = 1024
	if _, err := NewHasher(bad); err == nil {
		t.Fatalf("expected error for undersized memory")
	}

	bad = fastConfig()
	bad.Iterations = 0
	if _, err := NewHasher(bad); err == nil {
		t.Fatalf("expected error for zero iterations")
	}
}
