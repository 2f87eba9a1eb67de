package security_test

import (
	"testing"

	"blogapi/internal/common/security"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := security.HashPassword("password123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !security.CheckPasswordHash("password123", hash) {
		t.Fatal("correct password should verify")
	}
	if security.CheckPasswordHash("wrong", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestPasswordHashing_Salted(t *testing.T) {
	h1, err := security.HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := security.HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ by salt")
	}
}
