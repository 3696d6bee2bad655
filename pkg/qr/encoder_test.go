package qr

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64EncoderRoundTrip(t *testing.T) {
	encoder := NewBase64Encoder()
	issued := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	encoded, err := encoder.Encode(Payload{
		SerialNumber: "AASTU-20250901-DEADBEEF",
		StudentID:    "ETS0001/14",
		Semester:     "First",
		IssuedAt:     issued,
	})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "AASTU-20250901-DEADBEEF", decoded["serialNumber"])
	assert.Equal(t, "ETS0001/14", decoded["studentId"])
	assert.Equal(t, "First", decoded["semester"])
}
