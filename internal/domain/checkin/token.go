package checkin

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// ImageSize is the pixel width/height of the generated QR image.
const ImageSize = 256

// ErrEmptyUserID is returned when a token is requested without a user.
var ErrEmptyUserID = errors.New("check-in token requires a user ID")

// Token is the scannable check-in credential derived from an active
// subscription. It encodes only the user id; the front desk scanner treats
// the payload as opaque.
type Token struct {
	UserID string
}

// Payload returns the string encoded into the QR image.
// INVARIANT: Token fields are not mutated
func (t Token) Payload() string {
	return fmt.Sprintf("USER:%s:VALID", t.UserID)
}

// ImageBase64 renders the payload as a QR PNG and returns it base64-encoded
// for inlining into an <img> data URI. The image is never written to disk.
// PRE: UserID is non-empty
// POST: Returns base64 of a PNG, or an error
func (t Token) ImageBase64() (string, error) {
	if t.UserID == "" {
		return "", ErrEmptyUserID
	}
	png, err := qrcode.Encode(t.Payload(), qrcode.Medium, ImageSize)
	if err != nil {
		return "", fmt.Errorf("encode check-in qr: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
