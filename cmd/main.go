// Command chartbot runs the Telegram bot that draws crypto candlestick charts
// and asks an AI model for a trading recommendation.
//
// Usage:
//
//	chartbot --config config.yaml
//	chartbot --setup (interactive wizard, writes config.gen.yaml and .env)
//
// Required environment variables (or .env):
//
//	TELEGRAM_BOT_TOKEN (alias API_TOKEN)
//	GEMINI_API_KEY or LLM_API_KEY
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/config"
	"github.com/vadiminshakov/chartbot/internal/bot"
	"github.com/vadiminshakov/chartbot/internal/clients"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/chartbot/internal/scheduler"
	"github.com/vadiminshakov/chartbot/internal/services/analysis"
	"github.com/vadiminshakov/chartbot/internal/services/chart"
	"github.com/vadiminshakov/chartbot/internal/services/marketdata"
	"github.com/vadiminshakov/chartbot/internal/services/promptbuilder"
	"github.com/vadiminshakov/chartbot/internal/services/session"
	"github.com/vadiminshakov/chartbot/internal/setup"
	"github.com/vadiminshakov/chartbot/internal/storage/donations"
	"github.com/vadiminshakov/chartbot/internal/telegram"
	"github.com/vadiminshakov/chartbot/internal/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	runSetup := flag.Bool("setup", false, "run the interactive configuration wizard")
	flag.Parse()

	if *runSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		*configPath = setup.ConfigFile
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	coins := domain.DefaultCoinCatalog()

	market, sourceName, err := newMarketData(cfg.Exchange, logger)
	if err != nil {
		return err
	}

	llm, err := newLLMClient(cfg.LLM)
	if err != nil {
		return err
	}
	prompts := promptbuilder.NewPromptBuilder(logger.Named("prompt"))
	analyzer := analysis.NewRequester(llm, prompts, logger.Named("analysis"))

	sessions, err := session.NewStore(cfg.Session.Capacity)
	if err != nil {
		return errors.Wrap(err, "create session store")
	}

	journal, err := donations.NewWALStore(cfg.Donations.WALDir)
	if err != nil {
		return errors.Wrap(err, "open donation journal")
	}
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Warn("Failed to close donation journal", zap.Error(err))
		}
	}()

	tg := clients.NewTelegramClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.RequestTimeout)

	controller, err := bot.NewController(bot.Dependencies{
		Messenger: telegram.NewMessenger(tg),
		Market:    market,
		Renderer:  chart.NewRenderer(),
		Analyzer:  analyzer,
		Sessions:  sessions,
		Donations: journal,
		Coins:     coins,
	}, bot.Config{
		MaxMessageLength:   cfg.Telegram.MaxMessageLength,
		DonationAmounts:    cfg.Donations.Amounts,
		SourceName:         sourceName,
		AnalysisTimeframes: prompts.Timeframes(),
	}, logger.Named("bot"))
	if err != nil {
		return errors.Wrap(err, "create controller")
	}

	dispatcher := telegram.NewDispatcher(controller)
	poller := telegram.NewPoller(tg, dispatcher, logger.Named("poller"), telegram.WithPollTimeout(cfg.Telegram.PollTimeout))

	stats, err := scheduler.NewStatsReporter(cfg.Stats.Schedule, sessions, journal, logger.Named("stats"))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := poller.Run(gctx)
		dispatcher.Wait()
		return err
	})
	g.Go(func() error {
		return stats.Run(gctx)
	})

	if cfg.Dashboard.Addr != "" {
		server := web.NewServer(cfg.Dashboard.Addr, journal, market, coins, logger.Named("web"))
		g.Go(func() error {
			if len(cfg.Dashboard.Domains) > 0 {
				return server.StartWithAutoTLS(gctx, cfg.Dashboard.Domains, cfg.Dashboard.CertCacheDir)
			}
			return server.Start(gctx)
		})
	}

	logger.Info("Bot started",
		zap.String("exchange", cfg.Exchange.Platform),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Int("coins", coins.Len()),
		zap.String("dashboard", cfg.Dashboard.Addr),
	)

	return g.Wait()
}

func newMarketData(cfg config.ExchangeConfig, logger *zap.Logger) (*marketdata.Collector, string, error) {
	switch cfg.Platform {
	case config.PlatformBinance:
		provider := marketdata.NewBinanceKlineProvider(clients.NewBinanceClient(cfg.BaseURL, cfg.Timeout))
		return marketdata.NewCollector(provider, cfg.Timeout, logger.Named("binance")), "Binance", nil
	case config.PlatformBybit:
		provider := marketdata.NewBybitKlineProvider(clients.NewBybitClient(cfg.BaseURL))
		return marketdata.NewCollector(provider, cfg.Timeout, logger.Named("bybit")), "Bybit", nil
	default:
		return nil, "", errors.Errorf("unsupported platform %q", cfg.Platform)
	}
}

func newLLMClient(cfg config.LLMConfig) (clients.LLMClient, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return clients.NewGeminiClient(cfg.APIURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case config.ProviderOpenAI:
		return clients.NewOpenAICompatibleClient(cfg.APIURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	default:
		return nil, errors.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}
