package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/username/tradewhatif/src/logger"
)

const (
	priceCurrency = "USD"
	ckPrice       = "price_%s"
)

// DefaultMockBaselines are the demo prices the mock market moves around.
var DefaultMockBaselines = map[string]decimal.Decimal{
	"AAPL":  decimal.RequireFromString("175.50"),
	"MSFT":  decimal.RequireFromString("420.75"),
	"TSLA":  decimal.RequireFromString("250.30"),
	"AMZN":  decimal.RequireFromString("180.25"),
	"GOOGL": decimal.RequireFromString("145.60"),
	"OMEX":  decimal.RequireFromString("1.26"),
}

// DefaultUnknownBaseline prices symbols missing from the baseline table.
var DefaultUnknownBaseline = decimal.NewFromInt(100)

// mockPriceServiceImpl quotes each symbol at its baseline moved by a uniform random factor in
// [1-jitter, 1+jitter).
type mockPriceServiceImpl struct {
	baselines map[string]decimal.Decimal
	fallback  decimal.Decimal
	jitter    float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockPriceService creates the demo price source. A nil rng uses the global generator.
func NewMockPriceService(baselines map[string]decimal.Decimal, fallback decimal.Decimal, jitterPercent float64, rng *rand.Rand) PriceService {
	normalized := make(map[string]decimal.Decimal, len(baselines))
	for symbol, price := range baselines {
		normalized[strings.ToUpper(symbol)] = price
	}
	return &mockPriceServiceImpl{
		baselines: normalized,
		fallback:  fallback,
		jitter:    jitterPercent / 100,
		rng:       rng,
	}
}

func (s *mockPriceServiceImpl) GetCurrentPrices(ctx context.Context, symbols []string) (map[string]PriceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make(map[string]PriceInfo, len(symbols))
	for _, symbol := range symbols {
		if symbol == "" {
			continue
		}
		base, ok := s.baselines[strings.ToUpper(symbol)]
		if !ok {
			base = s.fallback
		}
		price := base.Mul(decimal.NewFromFloat(s.factor())).Round(2)
		result[symbol] = PriceInfo{Status: PriceStatusOK, Price: price, Currency: priceCurrency}
	}
	return result, nil
}

func (s *mockPriceServiceImpl) factor() float64 {
	if s.jitter == 0 {
		return 1
	}
	var r float64
	if s.rng == nil {
		r = rand.Float64()
	} else {
		s.mu.Lock()
		r = s.rng.Float64()
		s.mu.Unlock()
	}
	return 1 + (r*2-1)*s.jitter
}

type mockPriceFile struct {
	Default float64            `yaml:"default"`
	Prices  map[string]float64 `yaml:"prices"`
}

// LoadMockBaselines reads per-symbol baselines from a YAML file of the form
//
//	default: 100
//	prices:
//	  AAPL: 175.50
func LoadMockBaselines(path string) (map[string]decimal.Decimal, decimal.Decimal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("failed to read mock prices file '%s': %w", path, err)
	}
	var file mockPriceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("failed to parse mock prices file '%s': %w", path, err)
	}

	baselines := make(map[string]decimal.Decimal, len(file.Prices))
	for symbol, price := range file.Prices {
		if price <= 0 {
			return nil, decimal.Decimal{}, fmt.Errorf("mock price for %s must be positive, got %v", symbol, price)
		}
		baselines[strings.ToUpper(symbol)] = decimal.NewFromFloat(price)
	}
	fallback := DefaultUnknownBaseline
	if file.Default > 0 {
		fallback = decimal.NewFromFloat(file.Default)
	}
	logger.L.Info("Loaded mock price baselines", "path", path, "symbols", len(baselines), "default", fallback.String())
	return baselines, fallback, nil
}

// cachedPriceService keeps successful quotes from inner for the cache's default expiration.
type cachedPriceService struct {
	inner PriceService
	cache *cache.Cache
}

func NewCachedPriceService(inner PriceService, c *cache.Cache) PriceService {
	return &cachedPriceService{inner: inner, cache: c}
}

func (s *cachedPriceService) GetCurrentPrices(ctx context.Context, symbols []string) (map[string]PriceInfo, error) {
	result := make(map[string]PriceInfo, len(symbols))
	var misses []string
	for _, symbol := range symbols {
		if cached, found := s.cache.Get(fmt.Sprintf(ckPrice, symbol)); found {
			result[symbol] = cached.(PriceInfo)
			continue
		}
		misses = append(misses, symbol)
	}
	if len(misses) == 0 {
		logger.FromContext(ctx).Debug("Cache hit for all prices", "symbols", len(symbols))
		return result, nil
	}

	fetched, err := s.inner.GetCurrentPrices(ctx, misses)
	if err != nil {
		return result, err
	}
	for symbol, info := range fetched {
		if info.Status == PriceStatusOK {
			s.cache.SetDefault(fmt.Sprintf(ckPrice, symbol), info)
		}
		result[symbol] = info
	}
	return result, nil
}

// PriceFunc adapts a single-symbol lookup to PriceService. Lookup errors mark the symbol
// unavailable; context errors abort the whole call.
type PriceFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

func (f PriceFunc) GetCurrentPrices(ctx context.Context, symbols []string) (map[string]PriceInfo, error) {
	result := make(map[string]PriceInfo, len(symbols))
	for _, symbol := range symbols {
		price, err := f(ctx, symbol)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logger.FromContext(ctx).Warn("Price lookup failed", "symbol", symbol, "error", err)
			result[symbol] = PriceInfo{Status: PriceStatusUnavailable}
			continue
		}
		result[symbol] = PriceInfo{Status: PriceStatusOK, Price: price, Currency: priceCurrency}
	}
	return result, nil
}
