package render

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"billing-engine/internal/core"
)

// QRPayload builds the plain-text block encoded into the invoice QR code.
// The invoice number is zero-padded to four digits.
func QRPayload(company string, inv core.Invoice) string {
	return fmt.Sprintf("Company: %s\nInvoice No: %04d\nDate: %s\nCustomer: %s\nTotal: %s",
		company,
		inv.InvoiceNumber,
		inv.Date.Format("02-01-2006"),
		inv.CustomerName,
		inv.Total.StringFixed(2),
	)
}

// EncodeQR renders the payload as a PNG of the given pixel size.
func EncodeQR(payload string, size int) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Low, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// WriteQR writes the encoded payload to a PNG file.
func WriteQR(payload string, size int, path string) error {
	if err := qrcode.WriteFile(payload, qrcode.Low, size, path); err != nil {
		return fmt.Errorf("failed to write QR code: %w", err)
	}
	return nil
}
