package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-engine/internal/config"
	"billing-engine/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "billing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ReadsCompanyBankAndRates(t *testing.T) {
	path := writeConfig(t, `
company:
  name: Sri Vari Electricals
  address: 12 Bazaar Street, Madurai
  phone: "0452-2345678"
  email: sales@srivari.example
gstin: 33ABCDE1234F1Z5
bank_details:
  name: State Bank
  account: "1234567890"
  ifsc: SBIN0001234
  branch: Madurai Main
tax_rates:
  sgst: 2.5
  igst: 2.5
auto_save:
  enabled: true
  interval_minutes: 2
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Sri Vari Electricals", cfg.Company.Name)
	assert.Equal(t, "33ABCDE1234F1Z5", cfg.Company.GSTIN)
	assert.Equal(t, "SBIN0001234", cfg.Bank.IFSC)
	assert.True(t, cfg.AutoSave.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.AutoSave.Interval)

	rates, err := cfg.TaxRates()
	require.NoError(t, err)
	assert.True(t, rates.SGST.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, rates.IGST.Equal(decimal.RequireFromString("2.5")))
}

func TestLoad_MissingExplicitFileIsAnError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestTaxRates_DefaultsWhenUnset(t *testing.T) {
	path := writeConfig(t, "company:\n  name: Test\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	rates, err := cfg.TaxRates()
	require.NoError(t, err)
	assert.True(t, rates.SGST.Equal(decimal.NewFromInt(9)))
	assert.True(t, rates.IGST.Equal(decimal.NewFromInt(9)))
}

func TestTaxRates_MalformedRateFallsBack(t *testing.T) {
	path := writeConfig(t, "tax_rates:\n  sgst: nine\n  igst: 12\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	rates, err := cfg.TaxRates()
	var cerr *core.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "tax_rates.sgst", cerr.Key)

	assert.True(t, rates.SGST.Equal(decimal.NewFromInt(9)), "malformed rate must fall back to the default")
	assert.True(t, rates.IGST.Equal(decimal.NewFromInt(12)), "a valid sibling rate must still apply")
}

func TestTaxRates_NegativeRateFallsBack(t *testing.T) {
	path := writeConfig(t, "tax_rates:\n  sgst: -3\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	rates, err := cfg.TaxRates()
	var cerr *core.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, rates.SGST.Equal(decimal.NewFromInt(9)))
}

func TestLoad_AutoSaveDefaults(t *testing.T) {
	path := writeConfig(t, "company:\n  name: Test\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.AutoSave.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.AutoSave.Interval)
}
