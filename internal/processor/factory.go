package processor

import (
	"net/http"
	"sort"
	"sync"

	"github.com/meadows123/venuebook/internal/currency"
)

// FactoryConfig carries the credentials and knobs processor construction
// needs. HTTPClient is shared across processors; leave it nil for
// http.DefaultClient. Timeouts and retries belong to the client, not here.
type FactoryConfig struct {
	PaystackSecretKey   string
	PaystackSubaccount  string
	PaystackBaseURL     string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripeBaseURL       string
	PlatformFeePct      float64
	HTTPClient          *http.Client
}

// Factory resolves and caches one processor instance per currency. The
// check-then-create step runs under a mutex so concurrent first use cannot
// construct duplicates. Construction failures are returned and never cached,
// so a fixed configuration takes effect on the next call.
type Factory struct {
	registry *currency.Registry
	cfg      FactoryConfig

	mu    sync.Mutex
	cache map[string]PaymentProcessor
}

func NewFactory(registry *currency.Registry, cfg FactoryConfig) *Factory {
	return &Factory{
		registry: registry,
		cfg:      cfg,
		cache:    make(map[string]PaymentProcessor),
	}
}

// Processor returns the cached processor for the currency, constructing it on
// first use.
func (f *Factory) Processor(currencyCode string) (PaymentProcessor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.cache[currencyCode]; ok {
		return p, nil
	}

	cfg, err := f.registry.Config(currencyCode)
	if err != nil {
		return nil, err
	}

	p, err := f.construct(cfg)
	if err != nil {
		return nil, err
	}

	f.cache[currencyCode] = p
	return p, nil
}

// WebhookProcessor returns a processor of the given gateway type for webhook
// verification, bound to the lowest supported currency code for determinism.
func (f *Factory) WebhookProcessor(t currency.ProcessorType) (PaymentProcessor, error) {
	codes := f.registry.Codes()
	sort.Strings(codes)
	for _, code := range codes {
		pt, err := f.registry.ProcessorFor(code)
		if err != nil {
			continue
		}
		if pt == t {
			return f.Processor(code)
		}
	}
	return nil, &currency.UnsupportedCurrencyError{Code: string(t)}
}

func (f *Factory) construct(cfg currency.Config) (PaymentProcessor, error) {
	switch cfg.Processor {
	case currency.ProcessorPaystack:
		return NewPaystackProcessor(cfg, f.cfg.PaystackSecretKey, f.cfg.PaystackSubaccount,
			f.cfg.PlatformFeePct, f.cfg.HTTPClient, f.cfg.PaystackBaseURL)
	case currency.ProcessorStripe:
		return NewStripeProcessor(cfg, f.cfg.StripeSecretKey, f.cfg.StripeWebhookSecret,
			f.cfg.PlatformFeePct, f.cfg.HTTPClient, f.cfg.StripeBaseURL)
	default:
		return nil, &currency.UnsupportedCurrencyError{Code: cfg.Code}
	}
}
