package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the invoice to an A4 PDF: header block, customer block,
// items table, totals block, words block, bank-details block, signature
// block and QR block.
func WritePDF(doc Document, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header block
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, doc.Company.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, doc.Company.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Phone: %s   Email: %s", doc.Company.Phone, doc.Company.Email), "", 1, "C", false, 0, "")
	if doc.Company.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+doc.Company.GSTIN, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 6, fmt.Sprintf("Invoice No: %04d", doc.Invoice.InvoiceNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+doc.Invoice.Date.Format("02-01-2006"), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Bill Type: "+string(doc.Invoice.BillType), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Customer block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, doc.Invoice.CustomerName, "", 1, "L", false, 0, "")
	if doc.Invoice.CustomerAddress != "" {
		pdf.CellFormat(0, 5, doc.Invoice.CustomerAddress, "", 1, "L", false, 0, "")
	}
	if doc.Invoice.CustomerPlace != "" {
		pdf.CellFormat(0, 5, doc.Invoice.CustomerPlace, "", 1, "L", false, 0, "")
	}
	if doc.Invoice.CustomerMobile != "" {
		pdf.CellFormat(0, 5, "Mobile: "+doc.Invoice.CustomerMobile, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Items table
	widths := []float64{12, 25, 83, 25, 15, 30}
	headers := []string{"S.No", "HSN", "Description", "Price", "Qty", "Total"}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, it := range doc.Items {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", it.SNo), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, it.HSN, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, it.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, it.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals block
	totalRows := []struct {
		label string
		value string
	}{
		{"Subtotal", doc.Totals.Subtotal.StringFixed(2)},
		{fmt.Sprintf("SGST (%s%%)", doc.Rates.SGST.String()), doc.Totals.SGST.StringFixed(2)},
		{fmt.Sprintf("IGST (%s%%)", doc.Rates.IGST.String()), doc.Totals.IGST.StringFixed(2)},
		{"Roundoff", doc.Totals.Roundoff.StringFixed(2)},
		{"Grand Total", doc.Totals.GrandTotal.StringFixed(2)},
	}
	for i, row := range totalRows {
		style := ""
		if i == len(totalRows)-1 {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(160, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Words block
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 5, "Amount in Words: "+doc.Totals.Words, "", "L", false)
	pdf.Ln(4)

	// Bank-details block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, "Bank Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Bank: %s   A/C: %s", doc.Bank.Name, doc.Bank.Account), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("IFSC: %s   Branch: %s", doc.Bank.IFSC, doc.Bank.Branch), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// QR block
	png, err := EncodeQR(QRPayload(doc.Company.Name, doc.Invoice), 256)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("invoice-qr", opts, bytes.NewReader(png))
	qrY := pdf.GetY()
	pdf.ImageOptions("invoice-qr", 10, qrY, 30, 30, false, opts, 0, "")

	// Signature block
	pdf.SetY(qrY + 20)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "For "+doc.Company.Name, "", 1, "R", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(0, 6, "Authorised Signatory", "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
