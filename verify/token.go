// Package verify encodes the pickup verification token shown at checkout
// and decodes what the vendor's scanner reads back.
package verify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/hanahehe/restore/models"
)

// Payload field order is part of the wire format
type Payload struct {
	OrderID string `json:"orderId"`
	Verify  bool   `json:"verify"`
}

// Encode returns `{"orderId":"<id>","verify":true}`
func Encode(orderID string) (string, error) {
	if orderID == "" {
		return "", fmt.Errorf("%w: empty order id", models.ErrInvalidToken)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Payload{OrderID: orderID, Verify: true}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode rejects anything that is not a JSON object with the exact keys
// orderId (a non-empty string) and verify (true). Key matching is
// case-sensitive.
func Decode(raw string) (Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	var p Payload
	id, ok := fields["orderId"]
	if !ok || json.Unmarshal(id, &p.OrderID) != nil || p.OrderID == "" {
		return Payload{}, fmt.Errorf("%w: missing orderId", models.ErrInvalidToken)
	}
	v, ok := fields["verify"]
	if !ok || json.Unmarshal(v, &p.Verify) != nil || !p.Verify {
		return Payload{}, fmt.Errorf("%w: verify must be true", models.ErrInvalidToken)
	}
	return p, nil
}

// QRCode renders the token as a size×size PNG at high error correction
func QRCode(token string, size int) ([]byte, error) {
	code, err := qr.Encode(token, qr.H, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	code, err = barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("qr scale: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("qr png: %w", err)
	}
	return buf.Bytes(), nil
}
