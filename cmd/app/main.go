package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"billing-engine/internal/config"
	"billing-engine/internal/core"
	"billing-engine/internal/db"
	"billing-engine/internal/render"
	"billing-engine/internal/store/postgres"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Unable to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("BILLING_CONFIG"))
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	rates, err := cfg.TaxRates()
	if err != nil {
		logger.Warn("falling back to default tax rates", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("Unable to migrate schema: %v", err)
	}

	store := postgres.NewStore(pool)
	invoices := core.NewInvoiceService(store, rates)
	reports := core.NewReportService(store)
	sequencer := core.NewSequencer(store)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "next":
			number, err := sequencer.Next(ctx)
			if err != nil {
				log.Fatalf("Failed to derive next invoice number: %v", err)
			}
			fmt.Printf("%04d\n", number)

		case "show":
			if len(os.Args) < 3 {
				log.Fatal("Usage: app show <invoice-number>")
			}
			number, err := strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatalf("Invalid invoice number: %v", err)
			}
			inv, items, err := invoices.Load(ctx, number)
			if err != nil {
				log.Fatalf("Failed to load invoice: %v", err)
			}
			printInvoice(inv, items)

		case "save":
			var draft invoiceDraft
			if err := json.NewDecoder(os.Stdin).Decode(&draft); err != nil {
				log.Fatalf("Invalid JSON: %v", err)
			}
			ledger, err := draft.ledger(ctx, invoices)
			if err != nil {
				log.Fatalf("Invalid draft: %v", err)
			}
			saved, err := invoices.Save(ctx, draft.Header, ledger)
			if err != nil {
				log.Fatalf("Save failed: %v", err)
			}
			fmt.Printf("Invoice %04d saved.\n", saved.InvoiceNumber)

		case "search":
			if len(os.Args) < 3 {
				log.Fatal("Usage: app search <query>")
			}
			found, err := invoices.Search(ctx, os.Args[2])
			if err != nil {
				log.Fatalf("Search failed: %v", err)
			}
			printInvoiceList(found)

		case "sales":
			if len(os.Args) < 4 {
				log.Fatal("Usage: app sales <from> <to> (dates as YYYY-MM-DD)")
			}
			from, err := time.Parse(dateLayout, os.Args[2])
			if err != nil {
				log.Fatalf("Invalid from date: %v", err)
			}
			to, err := time.Parse(dateLayout, os.Args[3])
			if err != nil {
				log.Fatalf("Invalid to date: %v", err)
			}
			report, err := reports.SalesByDateRange(ctx, from, to)
			if err != nil {
				log.Fatalf("Report failed: %v", err)
			}
			printSalesReport(report)

		case "products-report":
			report, err := reports.ProductSales(ctx)
			if err != nil {
				log.Fatalf("Report failed: %v", err)
			}
			printProductSales(report)

		case "export-pdf":
			if len(os.Args) < 4 {
				log.Fatal("Usage: app export-pdf <invoice-number> <path>")
			}
			exportInvoice(ctx, invoices, cfg, os.Args[2], os.Args[3], render.WritePDF)

		case "export-xlsx":
			if len(os.Args) < 4 {
				log.Fatal("Usage: app export-xlsx <invoice-number> <path>")
			}
			exportInvoice(ctx, invoices, cfg, os.Args[2], os.Args[3], render.WriteExcel)

		case "qr":
			if len(os.Args) < 4 {
				log.Fatal("Usage: app qr <invoice-number> <path>")
			}
			number, err := strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatalf("Invalid invoice number: %v", err)
			}
			inv, _, err := invoices.Load(ctx, number)
			if err != nil {
				log.Fatalf("Failed to load invoice: %v", err)
			}
			payload := render.QRPayload(cfg.Company.Name, inv)
			if err := render.WriteQR(payload, 256, os.Args[3]); err != nil {
				log.Fatalf("Failed to write QR code: %v", err)
			}
			fmt.Printf("QR code written to %s\n", os.Args[3])

		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	} else {
		runREPL(ctx, invoices, sequencer, cfg, logger)
	}
}

// invoiceDraft is the stdin payload of the save command: the header plus
// the raw line items, replayed through the invoice service so the usual
// validation, totals and product-registration rules apply.
type invoiceDraft struct {
	Header core.InvoiceHeader `json:"header"`
	Items  []struct {
		HSN         string          `json:"hsn"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Quantity    int             `json:"quantity"`
	} `json:"items"`
	Discount decimal.Decimal `json:"discount"`
}

func (d invoiceDraft) ledger(ctx context.Context, invoices *core.InvoiceService) (*core.Ledger, error) {
	ledger := core.NewLedger()
	for _, it := range d.Items {
		if _, err := invoices.AddItem(ctx, ledger, it.HSN, it.Description, it.Price, it.Quantity); err != nil {
			return nil, err
		}
	}
	if d.Discount.IsPositive() {
		if err := ledger.ApplyDiscount(d.Discount); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

func exportInvoice(ctx context.Context, invoices *core.InvoiceService, cfg *config.Config, numberArg, path string, write func(render.Document, string) error) {
	number, err := strconv.Atoi(numberArg)
	if err != nil {
		log.Fatalf("Invalid invoice number: %v", err)
	}
	inv, items, err := invoices.Load(ctx, number)
	if err != nil {
		log.Fatalf("Failed to load invoice: %v", err)
	}
	doc := render.NewDocument(companyInfo(cfg), bankInfo(cfg), inv, items, invoices.Rates())
	if err := write(doc, path); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Printf("Invoice %04d exported to %s\n", number, path)
}

func companyInfo(cfg *config.Config) render.CompanyInfo {
	return render.CompanyInfo{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
		Website: cfg.Company.Website,
		GSTIN:   cfg.Company.GSTIN,
	}
}

func bankInfo(cfg *config.Config) render.BankInfo {
	return render.BankInfo{
		Name:    cfg.Bank.Name,
		Account: cfg.Bank.Account,
		IFSC:    cfg.Bank.IFSC,
		Branch:  cfg.Bank.Branch,
	}
}

func runREPL(ctx context.Context, invoices *core.InvoiceService, sequencer *core.Sequencer, cfg *config.Config, logger *zap.Logger) {
	reader := bufio.NewReader(os.Stdin)
	ledger := core.NewLedger()
	header := core.InvoiceHeader{BillType: core.BillTypeCash}

	replCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.AutoSave.Enabled {
		saver := core.NewAutoSaver(core.DefaultScratchDir(), cfg.AutoSave.Interval, func() (int, core.LedgerSnapshot) {
			number, err := sequencer.Next(ctx)
			if err != nil {
				number = 0
			}
			return number, ledger.Snapshot()
		}, logger)
		go saver.Run(replCtx)
	}

	fmt.Println("Billing REPL")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println("-----------------------")

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		tokens := strings.Fields(input)
		switch strings.ToLower(tokens[0]) {
		case "help":
			printHelp()

		case "next":
			number, err := sequencer.Next(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Next invoice number: %04d\n", number)

		case "add":
			// add <hsn> <price> <qty> <description...>
			if len(tokens) < 5 {
				fmt.Println("Usage: add <hsn> <price> <qty> <description>")
				continue
			}
			price, qty, err := parsePriceQty(tokens[2], tokens[3])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			item, err := invoices.AddItem(ctx, ledger, tokens[1], strings.Join(tokens[4:], " "), price, qty)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Added item %d: %s x%d = %s\n", item.SNo, item.Description, item.Quantity, item.Total.StringFixed(2))

		case "edit":
			// edit <sno> <hsn> <price> <qty> <description...>
			if len(tokens) < 6 {
				fmt.Println("Usage: edit <sno> <hsn> <price> <qty> <description>")
				continue
			}
			sno, err := strconv.Atoi(tokens[1])
			if err != nil {
				fmt.Printf("Error: invalid serial number: %v\n", err)
				continue
			}
			price, qty, err := parsePriceQty(tokens[3], tokens[4])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			item, err := ledger.EditItem(sno, tokens[2], strings.Join(tokens[5:], " "), price, qty)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Updated item %d: %s x%d = %s\n", item.SNo, item.Description, item.Quantity, item.Total.StringFixed(2))

		case "remove":
			if len(tokens) < 2 {
				fmt.Println("Usage: remove <sno> [sno...]")
				continue
			}
			snos := make([]int, 0, len(tokens)-1)
			bad := false
			for _, t := range tokens[1:] {
				sno, err := strconv.Atoi(t)
				if err != nil {
					fmt.Printf("Error: invalid serial number %q\n", t)
					bad = true
					break
				}
				snos = append(snos, sno)
			}
			if bad {
				continue
			}
			if err := ledger.RemoveItems(snos); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("%d item(s) remaining.\n", ledger.Len())

		case "discount":
			if len(tokens) < 2 {
				fmt.Println("Usage: discount <amount>")
				continue
			}
			amount, err := decimal.NewFromString(tokens[1])
			if err != nil {
				fmt.Printf("Error: invalid amount: %v\n", err)
				continue
			}
			if err := ledger.ApplyDiscount(amount); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Println("Discount applied.")

		case "customer":
			// customer <mobile> <name...>
			if len(tokens) < 3 {
				fmt.Println("Usage: customer <mobile> <name>")
				continue
			}
			header.CustomerMobile = tokens[1]
			header.CustomerName = strings.Join(tokens[2:], " ")
			fmt.Printf("Customer set: %s (%s)\n", header.CustomerName, header.CustomerMobile)

		case "billtype":
			if len(tokens) < 2 {
				fmt.Println("Usage: billtype cash|credit")
				continue
			}
			switch strings.ToLower(tokens[1]) {
			case "cash":
				header.BillType = core.BillTypeCash
			case "credit":
				header.BillType = core.BillTypeCredit
			default:
				fmt.Printf("Unknown bill type: %s\n", tokens[1])
				continue
			}
			fmt.Printf("Bill type set to %s.\n", header.BillType)

		case "show":
			printLedger(ledger, invoices.Totals(ledger))

		case "save":
			saved, err := invoices.Save(ctx, header, ledger)
			if err != nil {
				fmt.Printf("Save FAILED: %v\n", err)
				continue
			}
			fmt.Printf("Invoice %04d COMMITTED.\n", saved.InvoiceNumber)
			header = core.InvoiceHeader{BillType: core.BillTypeCash}

		case "clear":
			ledger.Clear()
			header = core.InvoiceHeader{BillType: core.BillTypeCash}
			fmt.Println("Ledger cleared.")

		case "exit", "quit":
			return

		default:
			fmt.Printf("Unknown command: %s\n", tokens[0])
		}
	}
}

func parsePriceQty(priceArg, qtyArg string) (decimal.Decimal, int, error) {
	price, err := decimal.NewFromString(priceArg)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid price: %w", err)
	}
	qty, err := strconv.Atoi(qtyArg)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("invalid quantity: %w", err)
	}
	return price, qty, nil
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  next                                   preview the next invoice number")
	fmt.Println("  add <hsn> <price> <qty> <description>  add a line item")
	fmt.Println("  edit <sno> <hsn> <price> <qty> <desc>  edit a line item")
	fmt.Println("  remove <sno> [sno...]                  remove line items")
	fmt.Println("  discount <amount>                      apply a discount to the subtotal")
	fmt.Println("  customer <mobile> <name>               set the customer")
	fmt.Println("  billtype cash|credit                   set the bill type")
	fmt.Println("  show                                   print the working invoice")
	fmt.Println("  save                                   persist the invoice")
	fmt.Println("  clear                                  discard the working invoice")
	fmt.Println("  exit, quit                             leave the REPL")
}

func printLedger(ledger *core.Ledger, totals core.Totals) {
	snap := ledger.Snapshot()
	fmt.Println("\n--- WORKING INVOICE ---")
	fmt.Printf("%-5s %-12s %-30s %12s %6s %12s\n", "S.NO", "HSN", "DESCRIPTION", "PRICE", "QTY", "TOTAL")
	fmt.Println(strings.Repeat("-", 80))
	for _, it := range snap.Items {
		fmt.Printf("%-5d %-12s %-30s %12s %6d %12s\n",
			it.SNo, it.HSN, it.Description, it.Price.StringFixed(2), it.Quantity, it.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 80))
	if snap.Discount.IsPositive() {
		fmt.Printf("%-55s %24s\n", "Discount", snap.Discount.StringFixed(2))
	}
	printTotals(totals)
}

func printTotals(totals core.Totals) {
	fmt.Printf("%-55s %24s\n", "Subtotal", totals.Subtotal.StringFixed(2))
	fmt.Printf("%-55s %24s\n", "SGST", totals.SGST.StringFixed(2))
	fmt.Printf("%-55s %24s\n", "IGST", totals.IGST.StringFixed(2))
	fmt.Printf("%-55s %24s\n", "Roundoff", totals.Roundoff.StringFixed(2))
	fmt.Printf("%-55s %24s\n", "Grand Total", totals.GrandTotal.StringFixed(2))
	fmt.Printf("In words: %s\n", totals.Words)
}

func printInvoice(inv core.Invoice, items []core.InvoiceItem) {
	fmt.Printf("\nINVOICE:   %04d\n", inv.InvoiceNumber)
	fmt.Printf("DATE:      %s\n", inv.Date.Format("02-01-2006"))
	fmt.Printf("CUSTOMER:  %s", inv.CustomerName)
	if inv.CustomerMobile != "" {
		fmt.Printf(" (%s)", inv.CustomerMobile)
	}
	fmt.Println()
	fmt.Printf("BILL TYPE: %s\n", inv.BillType)
	fmt.Println("ITEMS:")
	for _, it := range items {
		fmt.Printf("  [%d] %-12s %-30s %12s x%-4d %12s\n",
			it.SNo, it.HSN, it.Description, it.Price.StringFixed(2), it.Quantity, it.Total.StringFixed(2))
	}
	printTotals(core.TotalsFromInvoice(inv))
}

func printInvoiceList(invoices []core.Invoice) {
	fmt.Printf("%-10s %-12s %-30s %-8s %15s\n", "INVOICE", "DATE", "CUSTOMER", "TYPE", "TOTAL")
	fmt.Println(strings.Repeat("-", 80))
	for _, inv := range invoices {
		fmt.Printf("%-10d %-12s %-30s %-8s %15s\n",
			inv.InvoiceNumber, inv.Date.Format("02-01-2006"), inv.CustomerName,
			inv.BillType, inv.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%d invoice(s)\n", len(invoices))
}

func printSalesReport(report *core.SalesReport) {
	fmt.Printf("\n--- SALES %s TO %s ---\n", report.From.Format(dateLayout), report.To.Format(dateLayout))
	fmt.Printf("%-12s %-10s %-30s %15s\n", "DATE", "INVOICE", "CUSTOMER", "TOTAL")
	fmt.Println(strings.Repeat("-", 70))
	for _, r := range report.Rows {
		fmt.Printf("%-12s %-10d %-30s %15s\n",
			r.Date.Format("02-01-2006"), r.InvoiceNumber, r.CustomerName, r.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("%d invoice(s), total %s\n", report.InvoiceCount, report.TotalSales.StringFixed(2))
}

func printProductSales(report *core.ProductSalesReport) {
	fmt.Println("\n--- PRODUCT SALES ---")
	fmt.Printf("%-12s %-30s %10s %15s\n", "HSN", "PRODUCT", "QTY SOLD", "TOTAL SALES")
	fmt.Println(strings.Repeat("-", 70))
	for _, r := range report.Rows {
		fmt.Printf("%-12s %-30s %10d %15s\n", r.HSN, r.Name, r.QuantitySold, r.TotalSales.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("%d unit(s), total %s\n", report.TotalQuantity, report.TotalSales.StringFixed(2))
}
