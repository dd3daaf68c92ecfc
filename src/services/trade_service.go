package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/models"
	"github.com/username/tradewhatif/src/parsers"
	"github.com/username/tradewhatif/src/processors"
	"github.com/username/tradewhatif/src/security/validation"
)

const (
	ckLatestTrades = "latest_trades_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute

	// expiredMarker pre-screens emails before any broker format is consulted.
	expiredMarker = "expired"
)

type tradeServiceImpl struct {
	extractor   *parsers.Extractor
	prices      PriceService
	resultCache *cache.Cache
	concurrency int
}

func NewTradeService(extractor *parsers.Extractor, prices PriceService, resultCache *cache.Cache, concurrency int) TradeService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &tradeServiceImpl{
		extractor:   extractor,
		prices:      prices,
		resultCache: resultCache,
		concurrency: concurrency,
	}
}

func (s *tradeServiceImpl) AnalyzeEmails(ctx context.Context, req models.AnalyzeRequest) ([]models.ParsedTrade, error) {
	startTime := time.Now()
	if req.Emails == nil {
		return nil, fmt.Errorf("%w: emails array is required", ErrInvalidRequest)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	logger.FromContext(ctx).Info("AnalyzeEmails START", "emails", len(req.Emails), "filterSymbol", req.FilterSymbol, "mailbox", req.Mailbox)

	trades, err := s.extract(ctx, req.Emails)
	if err != nil {
		return nil, err
	}

	trades = processors.FilterBySymbol(trades, req.FilterSymbol)
	trades = processors.FilterByDateRange(trades, req.DateRange)

	trades, err = s.enrichWithProfit(ctx, trades)
	if err != nil {
		return nil, err
	}

	if req.Mailbox != "" {
		s.resultCache.SetDefault(latestKey(req.Mailbox), trades)
	}
	logger.FromContext(ctx).Info("AnalyzeEmails END", "trades", len(trades), "duration", time.Since(startTime))
	return trades, nil
}

func (s *tradeServiceImpl) LatestTrades(mailbox string) ([]models.ParsedTrade, error) {
	if cached, found := s.resultCache.Get(latestKey(mailbox)); found {
		logger.L.Debug("Cache hit for latest trades", "mailbox", mailbox)
		return cached.([]models.ParsedTrade), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoAnalysis, mailbox)
}

// extract runs the extractor over every email that mentions an expiry, keeping email order.
func (s *tradeServiceImpl) extract(ctx context.Context, emails []models.Email) ([]models.ParsedTrade, error) {
	perEmail := make([][]models.ParsedTrade, len(emails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, email := range emails {
		if !strings.Contains(email.Subject, expiredMarker) && !strings.Contains(email.Content, expiredMarker) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perEmail[i] = s.extractor.ExtractTrades(email)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := []models.ParsedTrade{}
	for _, trades := range perEmail {
		all = append(all, trades...)
	}
	return all, nil
}

// enrichWithProfit prices each distinct symbol once and applies the profit simulator.
// Trades whose symbol could not be priced are returned unchanged.
func (s *tradeServiceImpl) enrichWithProfit(ctx context.Context, trades []models.ParsedTrade) ([]models.ParsedTrade, error) {
	var symbols []string
	seen := make(map[string]bool)
	for _, t := range trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}

	var mu sync.Mutex
	prices := make(map[string]PriceInfo, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, symbol := range symbols {
		g.Go(func() error {
			quotes, err := s.prices.GetCurrentPrices(gctx, []string{symbol})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.FromContext(ctx).Warn("Could not fetch current price", "symbol", symbol, "error", err)
				return nil
			}
			mu.Lock()
			prices[symbol] = quotes[symbol]
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	enriched := make([]models.ParsedTrade, 0, len(trades))
	for _, t := range trades {
		info, ok := prices[t.Symbol]
		if !ok || info.Status != PriceStatusOK {
			logger.FromContext(ctx).Warn("No current price, leaving potential profit unset", "symbol", t.Symbol, "tradeID", t.ID)
			enriched = append(enriched, t)
			continue
		}
		enriched = append(enriched, processors.WithPotentialProfit(t, info.Price))
	}
	return enriched, nil
}

func latestKey(mailbox string) string {
	return fmt.Sprintf(ckLatestTrades, strings.ToLower(strings.TrimSpace(mailbox)))
}
