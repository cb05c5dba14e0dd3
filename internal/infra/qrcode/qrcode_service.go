package qrcode

import (
	"encoding/json"

	"rentalhub/config"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// qrTypeOrderHandover marks codes scanned at item pickup and return.
const qrTypeOrderHandover = "order_handover"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// NewFromConfig builds the service from the qrcode section, falling back to 256px at level M.
func NewFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(256, "M")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// OrderPayload is the text encoded into an order's handover QR code.
func OrderPayload(orderID uuid.UUID) (string, error) {
	jsonData, err := json.Marshal(QRCodeData{
		OrderID: orderID.String(),
		Type:    qrTypeOrderHandover,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code data")
	}

	return string(jsonData), nil
}

// GenerateOrderQR generates a PNG handover QR code for an order
func (s *qrcodeService) GenerateOrderQR(orderID uuid.UUID) ([]byte, error) {
	payload, err := OrderPayload(orderID)
	if err != nil {
		return nil, err
	}

	qrCode, err := qrcode.New(payload, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseOrderQR parses scanned QR code text and returns the order ID
func (s *qrcodeService) ParseOrderQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != qrTypeOrderHandover {
		return uuid.Nil, errors.Errorf("invalid QR code type: %s", data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse order ID")
	}

	return orderID, nil
}
