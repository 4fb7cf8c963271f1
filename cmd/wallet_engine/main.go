package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"

	"wallet_engine/internal/app/service"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/infrastructure/configloader"
	"wallet_engine/internal/infrastructure/httpclient"
	"wallet_engine/internal/infrastructure/ledger"
	"wallet_engine/internal/infrastructure/profile"
	"wallet_engine/internal/infrastructure/restapi"
	"wallet_engine/internal/infrastructure/session"
	"wallet_engine/internal/pkg/logger"
	"wallet_engine/internal/pkg/metrics"
	"wallet_engine/internal/pkg/utils"
)

func main() {
	// Bootstrap logger for the pre-config phase.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))
	logger.UseDefault()
	appLogger := logger.NewSlogAdapter()

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	// Infrastructure clients.
	ledgerClient := ledger.NewRPCClient(
		cfg.Ledger.RPCURL,
		time.Duration(cfg.Ledger.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	indexerClient := httpclient.NewIndexerClient(
		cfg.Indexer.BaseURL,
		cfg.Indexer.APIKey,
		time.Duration(cfg.Indexer.RequestTimeoutMillis)*time.Millisecond,
		cfg.Indexer.RateLimitPerSecond,
		zapLogger,
	)
	marketClient := httpclient.NewMarketDataClient(
		cfg.MarketData.BaseURL,
		time.Duration(cfg.MarketData.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	registryClient := httpclient.NewTokenRegistryClient(
		cfg.TokenRegistry.BaseURL,
		time.Duration(cfg.TokenRegistry.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	profileClient := profile.NewClient(
		cfg.ProfileService.BaseURL,
		time.Duration(cfg.ProfileService.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	txClient := ledger.NewTxClient(
		cfg.TxService.BaseURL,
		time.Duration(cfg.TxService.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	evmProvider := ledger.NewEVMProvider(
		cfg.EVMNetworks,
		time.Duration(cfg.Performance.CallTimeoutSeconds)*time.Second,
		appLogger,
	)
	zapLogger.Info("Upstream clients initialized")

	// Per-chain lookup tables derived from the network list.
	marketChainIDs := map[entity.Chain]string{
		entity.ChainXRPL: cfg.MarketData.LedgerChainID,
	}
	evmNativeSymbols := make(map[entity.Chain]string, len(cfg.EVMNetworks))
	for _, network := range cfg.EVMNetworks {
		chain := entity.Chain(network.Name)
		if network.MarketChainID != "" {
			marketChainIDs[chain] = network.MarketChainID
		}
		if network.NativeSymbol != "" {
			evmNativeSymbols[chain] = network.NativeSymbol
		}
	}

	sessionStore := session.NewStore(time.Duration(cfg.Session.TTLMinutes)*time.Minute, appLogger)

	// Application services.
	addressRegistry := service.NewAddressRegistry(profileClient, profileClient, appLogger)
	priceResolver := service.NewTokenPriceResolver(marketClient, registryClient, appLogger, marketChainIDs, cfg.MarketData.NativeSymbol)
	floorResolver := service.NewFloorPriceResolver(indexerClient, appLogger, cfg.Indexer.SalesProbeLimit)
	aggregator := service.NewBalanceAggregator(ledgerClient, indexerClient, evmProvider, appLogger, evmNativeSymbols)
	portfolioSvc := service.NewPortfolioService(
		sessionStore,
		addressRegistry,
		aggregator,
		priceResolver,
		floorResolver,
		appLogger,
		cfg.MarketData.NativeSymbol,
		cfg.Performance.MaxConcurrentRoutines,
	)
	trustlineSvc := service.NewTrustlineService(
		sessionStore,
		ledgerClient,
		txClient,
		txClient,
		appLogger,
		time.Duration(cfg.Lifecycle.SettlementDelaySeconds)*time.Second,
		cfg.Lifecycle.MinSlippagePct,
	)
	zapLogger.Info("Application services initialized")

	router := restapi.SetupRouter(
		zapLogger,
		restapi.NewPortfolioHandler(portfolioSvc, appLogger),
		restapi.NewTrustlineHandler(trustlineSvc, appLogger),
		restapi.NewSessionHandler(sessionStore, appLogger),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
