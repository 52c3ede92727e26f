package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"billing-engine/internal/core"
)

// Company is the issuer metadata printed on rendered documents.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
	GSTIN   string
}

// Bank is the settlement account block printed on rendered documents.
type Bank struct {
	Name    string
	Account string
	IFSC    string
	Branch  string
}

// AutoSave controls the background scratch-file writer.
type AutoSave struct {
	Enabled  bool
	Interval time.Duration
}

// Config is the process-wide settings store. The engine only reads tax
// rates from it; company and bank metadata feed the rendering layer.
type Config struct {
	v *viper.Viper

	Company  Company
	Bank     Bank
	AutoSave AutoSave
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tax_rates.sgst", 9)
	v.SetDefault("tax_rates.igst", 9)
	v.SetDefault("auto_save.enabled", true)
	v.SetDefault("auto_save.interval_minutes", 5)
}

// Load reads the settings file. With an empty path the default search
// locations are used and a missing file just means defaults apply; an
// explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("billing")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.billing-engine")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	return &Config{
		v: v,
		Company: Company{
			Name:    v.GetString("company.name"),
			Address: v.GetString("company.address"),
			Phone:   v.GetString("company.phone"),
			Email:   v.GetString("company.email"),
			Website: v.GetString("company.website"),
			GSTIN:   v.GetString("gstin"),
		},
		Bank: Bank{
			Name:    v.GetString("bank_details.name"),
			Account: v.GetString("bank_details.account"),
			IFSC:    v.GetString("bank_details.ifsc"),
			Branch:  v.GetString("bank_details.branch"),
		},
		AutoSave: AutoSave{
			Enabled:  v.GetBool("auto_save.enabled"),
			Interval: time.Duration(v.GetInt("auto_save.interval_minutes")) * time.Minute,
		},
	}, nil
}

// TaxRates returns the configured SGST/IGST percentages. A missing,
// malformed or negative rate falls back to the documented defaults; the
// fallback is reported as a ConfigurationError so callers can log it
// without blocking invoice creation.
func (c *Config) TaxRates() (core.TaxRates, error) {
	rates := core.DefaultTaxRates()
	var firstErr error

	if sgst, err := c.rate("tax_rates.sgst"); err != nil {
		firstErr = err
	} else {
		rates.SGST = sgst
	}
	if igst, err := c.rate("tax_rates.igst"); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else {
		rates.IGST = igst
	}
	return rates, firstErr
}

func (c *Config) rate(key string) (decimal.Decimal, error) {
	raw := c.v.GetString(key)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &core.ConfigurationError{Key: key, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if d.IsNegative() {
		return decimal.Zero, &core.ConfigurationError{Key: key, Reason: "must not be negative"}
	}
	return d, nil
}
