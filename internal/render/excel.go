package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteExcel exports the invoice as a workbook with three sheets:
// Products, Totals and Invoice Info.
func WriteExcel(doc Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const productsSheet = "Products"
	f.SetSheetName("Sheet1", productsSheet)

	productHeaders := []string{"S.No", "HSN", "Product Description", "Price", "Quantity", "Total"}
	if err := writeRow(f, productsSheet, 1, toAny(productHeaders)); err != nil {
		return err
	}
	for i, it := range doc.Items {
		price, _ := it.Price.Float64()
		total, _ := it.Total.Float64()
		row := []any{it.SNo, it.HSN, it.Description, price, it.Quantity, total}
		if err := writeRow(f, productsSheet, i+2, row); err != nil {
			return err
		}
	}

	const totalsSheet = "Totals"
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", totalsSheet, err)
	}
	totalsHeaders := []string{
		"Subtotal",
		fmt.Sprintf("SGST (%s%%)", doc.Rates.SGST.String()),
		fmt.Sprintf("IGST (%s%%)", doc.Rates.IGST.String()),
		"Roundoff",
		"Grand Total",
	}
	if err := writeRow(f, totalsSheet, 1, toAny(totalsHeaders)); err != nil {
		return err
	}
	subtotal, _ := doc.Totals.Subtotal.Float64()
	sgst, _ := doc.Totals.SGST.Float64()
	igst, _ := doc.Totals.IGST.Float64()
	roundoff, _ := doc.Totals.Roundoff.Float64()
	grand, _ := doc.Totals.GrandTotal.Float64()
	if err := writeRow(f, totalsSheet, 2, []any{subtotal, sgst, igst, roundoff, grand}); err != nil {
		return err
	}

	const infoSheet = "Invoice Info"
	if _, err := f.NewSheet(infoSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", infoSheet, err)
	}
	infoHeaders := []string{
		"Invoice Number", "Date", "Customer Name", "Customer Mobile",
		"Customer Place", "Customer Address", "Bill Type", "Amount in Words",
	}
	if err := writeRow(f, infoSheet, 1, toAny(infoHeaders)); err != nil {
		return err
	}
	info := []any{
		doc.Invoice.InvoiceNumber,
		doc.Invoice.Date.Format("02-01-2006"),
		doc.Invoice.CustomerName,
		doc.Invoice.CustomerMobile,
		doc.Invoice.CustomerPlace,
		doc.Invoice.CustomerAddress,
		string(doc.Invoice.BillType),
		doc.Totals.Words,
	}
	if err := writeRow(f, infoSheet, 2, info); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
