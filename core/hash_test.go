package core

import "testing"

func TestHashPasswordSalted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("expected different hashes for repeated input, got identical values")
	}
	if h1 == "secret1" || h2 == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword("secret1", h1) || !CheckPassword("secret1", h2) {
		t.Fatalf("both hashes must verify against the original password")
	}
}

func TestCheckPasswordWrong(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if CheckPassword("secret2", h) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("secret1", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
}
