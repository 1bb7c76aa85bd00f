package crypto

import (
	"encoding/hex"
	"testing"
)

func TestRandomToken(t *testing.T) {
	token, err := RandomToken(32)
	if err != nil {
		t.Fatalf("RandomToken() error = %v", err)
	}

	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Errorf("token is not valid hex: %v", err)
	}

	other, err := RandomToken(32)
	if err != nil {
		t.Fatalf("RandomToken() error = %v", err)
	}
	if token == other {
		t.Error("two tokens are identical")
	}
}

func TestRandomOtp(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := RandomOtp(6)
		if err != nil {
			t.Fatalf("RandomOtp() error = %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("otp %q length = %d, want 6", otp, len(otp))
		}
		for _, c := range otp {
			if c < '0' || c > '9' {
				t.Fatalf("otp %q contains non-digit %q", otp, c)
			}
		}
	}
}

func TestRandomString(t *testing.T) {
	s := RandomString(32, AlphanumericAlphabet)
	if len(s) != 32 {
		t.Errorf("length = %d, want 32", len(s))
	}
	for _, c := range s {
		found := false
		for _, a := range AlphanumericAlphabet {
			if c == a {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("character %q not in alphabet", c)
		}
	}
}

func TestHashToken(t *testing.T) {
	digest := HashToken("some-reset-token")

	if len(digest) != 64 {
		t.Errorf("digest length = %d, want 64", len(digest))
	}
	if digest != HashToken("some-reset-token") {
		t.Error("digest is not deterministic")
	}
	if digest == HashToken("some-other-token") {
		t.Error("different inputs produced the same digest")
	}
}
