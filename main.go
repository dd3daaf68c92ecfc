package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/username/tradewhatif/src/config"
	"github.com/username/tradewhatif/src/handlers"
	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/parsers"
	"github.com/username/tradewhatif/src/services"
)

type app struct {
	emailHandler    *handlers.EmailHandler
	tradeHandler    *handlers.TradeHandler
	analysisHandler *handlers.AnalysisHandler
}

func newPriceService(cfg *config.AppConfig) services.PriceService {
	baselines, fallback := services.DefaultMockBaselines, services.DefaultUnknownBaseline
	if cfg.MockPricesPath != "" {
		loaded, loadedFallback, err := services.LoadMockBaselines(cfg.MockPricesPath)
		if err != nil {
			logger.L.Error("Failed to load mock price baselines, using built-in defaults", "path", cfg.MockPricesPath, "error", err)
		} else {
			baselines, fallback = loaded, loadedFallback
		}
	}
	mockPrices := services.NewMockPriceService(baselines, fallback, cfg.PriceJitterPercent, nil)
	return services.NewCachedPriceService(mockPrices, cache.New(cfg.PriceCacheTTL, 2*cfg.PriceCacheTTL))
}

func newApp(cfg *config.AppConfig, prices services.PriceService, mailbox services.MailboxService) *app {
	resultCache := cache.New(cfg.AnalysisCacheTTL, services.CacheCleanupInterval)
	extractor := parsers.NewExtractor()
	tradeService := services.NewTradeService(extractor, prices, resultCache, cfg.PriceLookupConcurrency)

	return &app{
		emailHandler:    handlers.NewEmailHandler(mailbox),
		tradeHandler:    handlers.NewTradeHandler(tradeService),
		analysisHandler: handlers.NewAnalysisHandler(),
	}
}

func (a *app) routes(cfg *config.AppConfig) http.Handler {
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/fetch-emails", a.emailHandler.HandleFetchEmails)
	apiRouter.HandleFunc("POST /api/parse-emails", a.tradeHandler.HandleParseEmails)
	apiRouter.HandleFunc("GET /api/trades", a.tradeHandler.HandleGetTrades)
	apiRouter.HandleFunc("GET /api/trades/export", a.tradeHandler.HandleExportTrades)
	apiRouter.HandleFunc("POST /api/what-if", a.analysisHandler.HandleWhatIf)
	apiRouter.HandleFunc("POST /api/insights", a.analysisHandler.HandleInsights)

	rootMux.Handle("/api/", handlers.MaxBodyMiddleware(cfg.MaxRequestBodyBytes)(apiRouter))

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Trade what-if backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	limiter := rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimitBurst)
	return handlers.CORSMiddleware(cfg.AllowedOrigins)(handlers.RequestLoggerMiddleware(handlers.RateLimitMiddleware(limiter)(rootMux)))
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Trade what-if backend server starting...")

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	logger.L.Info("Initializing services and handlers...")
	prices := newPriceService(config.Cfg)
	mailbox := services.NewMockMailboxService(nil)
	a := newApp(config.Cfg, prices, mailbox)

	logger.L.Info("Configuring routes and global middleware...")
	finalHandler := a.routes(config.Cfg)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
