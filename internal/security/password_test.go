package security

import "testing"

func TestPasswordHashing(t *testing.T) {
	// Low cost keeps the test fast; verification is cost-independent.
	hash, err := HashPassword("secret", 4)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	ok, err := VerifyPassword("secret", hash)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to match")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected password mismatch")
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("secret", 0)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
}
