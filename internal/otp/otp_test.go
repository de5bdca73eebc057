package otp

import (
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if !ValidFormat(code) {
			t.Fatalf("Generate() = %q, want 6 ASCII digits", code)
		}
	}
}

func TestHashVerify(t *testing.T) {
	code, err := Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	hash, err := Hash(code)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == code {
		t.Fatal("Hash() must not store plaintext")
	}
	if !Verify(code, hash) {
		t.Error("Verify() = false for correct code")
	}
	if Verify("000000", hash) && code != "000000" {
		t.Error("Verify() = true for wrong code")
	}
}

func TestVerify_ExactStringEquality(t *testing.T) {
	// "012345" and "12345" are different codes even though they are equal
	// as numbers.
	hash, err := Hash("012345")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if Verify("12345", hash) {
		t.Error("Verify() must compare strings, not numbers")
	}
	if !Verify("012345", hash) {
		t.Error("Verify() = false for exact match")
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
		{" 23456", false},
	}

	for _, tt := range tests {
		if got := ValidFormat(tt.code); got != tt.want {
			t.Errorf("ValidFormat(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
