package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash should not equal the plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword should accept the correct password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("hashes of the same password should differ by salt")
	}
}
