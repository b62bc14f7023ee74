// Package currency holds the table of currencies the platform can charge in
// and which payment processor serves each of them.
package currency

import "fmt"

// ProcessorType identifies a payment gateway integration.
type ProcessorType string

const (
	ProcessorPaystack ProcessorType = "paystack"
	ProcessorStripe   ProcessorType = "stripe"
)

// Config describes one supported currency. Amounts are expressed in the
// currency's base unit (naira, euros), not the provider's smallest unit.
type Config struct {
	Code      string
	Processor ProcessorType
	// Decimals is the smallest-unit exponent (0 for NGN, 2 for EUR).
	Decimals  int
	MinAmount int64
	MaxAmount int64
	Symbol    string
	Countries []string
}

// UnsupportedCurrencyError is returned for a currency code the registry does
// not know.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q", e.Code)
}

// Registry is an immutable lookup of currency configurations. Construct one
// with NewRegistry and pass it to the processor factory; tests substitute
// their own bounds without touching shared state.
type Registry struct {
	configs map[string]Config
}

func NewRegistry(configs []Config) *Registry {
	m := make(map[string]Config, len(configs))
	for _, c := range configs {
		m[c.Code] = c
	}
	return &Registry{configs: m}
}

// DefaultRegistry returns the production currency table.
func DefaultRegistry() *Registry {
	return NewRegistry([]Config{
		{Code: "NGN", Processor: ProcessorPaystack, Decimals: 0, MinAmount: 100, MaxAmount: 10_000_000, Symbol: "₦", Countries: []string{"NG"}},
		{Code: "EUR", Processor: ProcessorStripe, Decimals: 2, MinAmount: 1, MaxAmount: 50_000, Symbol: "€", Countries: []string{"IE", "DE", "FR", "ES", "IT", "NL", "PT"}},
		{Code: "GBP", Processor: ProcessorStripe, Decimals: 2, MinAmount: 1, MaxAmount: 50_000, Symbol: "£", Countries: []string{"GB"}},
		{Code: "USD", Processor: ProcessorStripe, Decimals: 2, MinAmount: 1, MaxAmount: 50_000, Symbol: "$", Countries: []string{"US"}},
		{Code: "CAD", Processor: ProcessorStripe, Decimals: 2, MinAmount: 1, MaxAmount: 50_000, Symbol: "$", Countries: []string{"CA"}},
		{Code: "AUD", Processor: ProcessorStripe, Decimals: 2, MinAmount: 1, MaxAmount: 50_000, Symbol: "$", Countries: []string{"AU"}},
	})
}

func (r *Registry) Config(code string) (Config, error) {
	c, ok := r.configs[code]
	if !ok {
		return Config{}, &UnsupportedCurrencyError{Code: code}
	}
	return c, nil
}

func (r *Registry) ProcessorFor(code string) (ProcessorType, error) {
	c, err := r.Config(code)
	if err != nil {
		return "", err
	}
	return c.Processor, nil
}

// Codes lists the supported currency codes in no particular order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.configs))
	for code := range r.configs {
		codes = append(codes, code)
	}
	return codes
}
