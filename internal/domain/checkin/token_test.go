package checkin_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"gymdesk/internal/domain/checkin"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// TestToken_Payload tests the encoded payload format.
func TestToken_Payload(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		want   string
	}{
		{name: "numeric id", userID: "42", want: "USER:42:VALID"},
		{name: "uuid id", userID: "a1b2c3", want: "USER:a1b2c3:VALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := checkin.Token{UserID: tt.userID}
			if got := tok.Payload(); got != tt.want {
				t.Errorf("Payload() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestToken_ImageBase64 tests QR image generation.
func TestToken_ImageBase64(t *testing.T) {
	t.Run("valid token renders a PNG", func(t *testing.T) {
		tok := checkin.Token{UserID: "u1"}
		b64, err := tok.ImageBase64()
		if err != nil {
			t.Fatalf("ImageBase64() error = %v", err)
		}
		if b64 == "" {
			t.Fatal("ImageBase64() returned empty string")
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			t.Fatalf("output is not valid base64: %v", err)
		}
		if !bytes.HasPrefix(raw, pngMagic) {
			t.Error("decoded image is not a PNG")
		}
	})

	t.Run("empty user rejected", func(t *testing.T) {
		tok := checkin.Token{}
		if _, err := tok.ImageBase64(); err != checkin.ErrEmptyUserID {
			t.Errorf("ImageBase64() error = %v, want ErrEmptyUserID", err)
		}
	})
}
