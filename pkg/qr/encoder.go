package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the structured content embedded in a finalized slip's QR code.
// The workflow treats the encoded form as an opaque blob and never parses
// it back; a frontend or kiosk renders the actual image.
type Payload struct {
	SerialNumber string    `json:"serialNumber"`
	StudentID    string    `json:"studentId"`
	Semester     string    `json:"semester"`
	IssuedAt     time.Time `json:"issuedAt"`
}

// Encoder serializes QR payloads for an external image renderer.
type Encoder interface {
	Encode(p Payload) (string, error)
}

// Base64Encoder emits the payload as base64-encoded JSON.
type Base64Encoder struct{}

// NewBase64Encoder constructs a Base64Encoder.
func NewBase64Encoder() *Base64Encoder {
	return &Base64Encoder{}
}

// Encode serializes and base64-encodes the payload.
func (e *Base64Encoder) Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode qr payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
