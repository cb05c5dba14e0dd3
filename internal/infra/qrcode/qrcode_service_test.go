package qrcode

import (
	"encoding/json"
	"testing"

	"rentalhub/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{}
	assert.Equal(t, 256, NewFromConfig(cfg).(*qrcodeService).size)

	cfg.QRCode = &config.QRCodeConfig{Size: 512, ErrorCorrectionLevel: "H"}
	svc := NewFromConfig(cfg).(*qrcodeService)
	assert.Equal(t, 512, svc.size)
}

func TestQRCodeService_GenerateOrderQR(t *testing.T) {
	service := NewQRCodeService(256, "M")

	qrBytes, err := service.GenerateOrderQR(uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])
}

func TestQRCodeService_GenerateOrderQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, "M")

			qrBytes, err := service.GenerateOrderQR(uuid.New())
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestQRCodeService_ParseOrderQR(t *testing.T) {
	service := NewQRCodeService(256, "M")
	orderID := uuid.New()

	payload, err := OrderPayload(orderID)
	require.NoError(t, err)

	parsedID, err := service.ParseOrderQR(payload)
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
}

func TestQRCodeService_ParseOrderQR_Invalid(t *testing.T) {
	service := NewQRCodeService(256, "M")

	wrongType, err := json.Marshal(QRCodeData{OrderID: uuid.New().String(), Type: "subscription"})
	require.NoError(t, err)
	badID, err := json.Marshal(QRCodeData{OrderID: "not-a-valid-uuid", Type: qrTypeOrderHandover})
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    string
		message string
	}{
		{"invalid json", "invalid json", "failed to unmarshal QR code data"},
		{"wrong type", string(wrongType), "invalid QR code type"},
		{"invalid uuid", string(badID), "failed to parse order ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ParseOrderQR(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
