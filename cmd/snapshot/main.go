package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/app/service"
	"wallet_engine/internal/domain/entity"
	"wallet_engine/internal/infrastructure/configloader"
	"wallet_engine/internal/infrastructure/httpclient"
	"wallet_engine/internal/infrastructure/ledger"
	"wallet_engine/internal/infrastructure/profile"
	"wallet_engine/internal/infrastructure/session"
	"wallet_engine/internal/pkg/logger"
	"wallet_engine/internal/pkg/metrics"
)

// One-shot console runner: seeds a session for the given handle and address,
// computes a single portfolio snapshot and prints it as JSON.
func main() {
	var (
		cfgPath = flag.String("config", "config/config.yml", "path to the configuration file")
		handle  = flag.String("handle", "", "user handle to snapshot")
		address = flag.String("address", "", "primary ledger address for the session")
		timeout = flag.Duration("timeout", 60*time.Second, "overall snapshot timeout")
	)
	flag.Parse()

	if *handle == "" || *address == "" {
		fmt.Fprintln(os.Stderr, "usage: snapshot -handle <user> -address <r...> [-config path] [-timeout 60s]")
		os.Exit(2)
	}

	cfg, err := configloader.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.InitSlog(cfg.Logging.Level)
	appLogger := logger.NewSlogAdapter()

	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	metrics.MustRegisterMetrics()

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
	evmProvider := ledger.NewEVMProvider(
		cfg.EVMNetworks,
		time.Duration(cfg.Performance.CallTimeoutSeconds)*time.Second,
		appLogger,
	)

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
	sessionStore.Put(port.Session{
		UserHandle: *handle,
		PrimaryAddress: entity.Address{
			Chain: entity.ChainXRPL,
			Value: *address,
		},
	})

	portfolioSvc := service.NewPortfolioService(
		sessionStore,
		service.NewAddressRegistry(profileClient, profileClient, appLogger),
		service.NewBalanceAggregator(ledgerClient, indexerClient, evmProvider, appLogger, evmNativeSymbols),
		service.NewTokenPriceResolver(marketClient, registryClient, appLogger, marketChainIDs, cfg.MarketData.NativeSymbol),
		service.NewFloorPriceResolver(indexerClient, appLogger, cfg.Indexer.SalesProbeLimit),
		appLogger,
		cfg.MarketData.NativeSymbol,
		cfg.Performance.MaxConcurrentRoutines,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snapshot, err := portfolioSvc.GetPortfolioSnapshot(ctx, *handle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
		os.Exit(1)
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
