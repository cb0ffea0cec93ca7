package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"training-registration/internal/config"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/infra/adapters/device"
	"training-registration/internal/infra/adapters/notify"
	"training-registration/internal/infra/api"
	"training-registration/internal/infra/catalog"
	pg "training-registration/internal/infra/db/postgres"
	"training-registration/internal/infra/fallback"
	"training-registration/internal/infra/i18n"
	"training-registration/internal/infra/logging"
	"training-registration/internal/infra/metrics"
	red "training-registration/internal/infra/redis"
	"training-registration/internal/infra/sched"
	"training-registration/internal/infra/security"
	"training-registration/internal/infra/worker"
	"training-registration/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted fields)")
	notifyTest := flag.Bool("notify-test", false, "send a connection test notification and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Catalog & translations ----
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog")
	}
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.I18n.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("translations")
	}
	channels := toChannels(cfg.Payment.Channels)

	// ---- Notifications ----
	recorder := device.Recorder{}
	formatter := notify.NewFormatter(tr, cfg.Contact.Company, cfg.Payment.Currency, channels)
	chain, err := notify.BuildChain(cfg.Notify, formatter, recorder, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("notify")
	}
	defer func() {
		if err := chain.Close(); err != nil {
			logger.Warn().Err(err).Msg("notify close")
		}
	}()
	logger.Info().Strs("transports", chain.Dispatcher.Transports()).Msg("notification chain ready")

	if *notifyTest {
		code := runNotifyTest(ctx, chain.Dispatcher, logger)
		_ = chain.Close()
		os.Exit(code)
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	sessionRepo := red.NewSessionRepo(redisClient, cfg.Redis.TTL)
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Fallback store ----
	var sealer fallback.Sealer
	if cfg.Fallback.EncryptionKey != "" {
		recSealer, err := security.NewRecordSealer(cfg.Fallback.EncryptionKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("fallback sealer")
		}
		sealer = recSealer
	} else {
		logger.Warn().Msg("fallback.encryption_key not set; fallback records are stored in plaintext")
	}
	fallbackStore := fallback.NewFileStore(cfg.Fallback.Path, sealer)

	// ---- Repositories ----
	regRepo := pg.NewRegistrationRepoCacheDecorator(pg.NewRegistrationRepo(pool), redisClient, cfg.Redis.CacheTTL, logger)
	txManager := pg.NewTxManager(pool)

	// ---- Notifier (optionally asynchronous) ----
	var notifier adapter.Notifier = chain.Dispatcher
	if cfg.Notify.Async {
		wp := worker.NewPool(cfg.Notify.Workers, logger)
		wp.Start(ctx)
		defer wp.Stop()
		notifier = notify.NewAsyncNotifier(chain.Dispatcher, wp, cfg.Notify.Timeout, logger)
	}

	// ---- Use cases ----
	regUC := usecase.NewRegistrationUseCase(regRepo, fallbackStore, txManager, logger)
	formUC := usecase.NewFormUseCase(sessionRepo, locker, cat, cfg.Redis.LockTTL, logger)
	submitUC := usecase.NewSubmissionUseCase(sessionRepo, regRepo, fallbackStore, notifier, locker, cat, tr,
		cfg.Contact.Phone, cfg.Redis.LockTTL, logger)
	paymentUC := usecase.NewPaymentUseCase(sessionRepo, notifier, recorder, cat, channels, usecase.PaymentSettings{
		DepositAmount: cfg.Payment.DepositAmount,
		Currency:      cfg.Payment.Currency,
		DialDelay:     cfg.Payment.DialDelay,
		ContactPhone:  cfg.Contact.Phone,
	}, tr, regUC.MarkPaymentInitiated, logger)

	// ---- Background workers ----
	go func() {
		if err := sched.NewFallbackMonitor(cfg.Fallback.MonitorInterval, fallbackStore, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("fallback monitor stopped")
		}
	}()
	go func() {
		if err := sched.NewPoolStatsWorker(15*time.Second, pool, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("pool stats worker stopped")
		}
	}()

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Admin.APIKey, cfg.Admin.JWTSecret, cfg.Admin.SecureCookie, cfg.Admin.TokenTTL)
	if !auth.Enabled() {
		logger.Warn().Msg("admin.api_key not set; admin API disabled")
	}
	srv := api.NewServer(formUC, submitUC, paymentUC, regUC, auth, rateLimiter, api.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		SubmitLimit:    cfg.RateLimit.Limit,
		SubmitWindow:   cfg.RateLimit.Window,
		Currency:       cfg.Payment.Currency,
		Terms:          tr.Terms(),
		Dev:            cfg.Runtime.Dev,
	}, logger)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Str("version", version).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shCtx, shCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shCancel()
	if err := httpSrv.Shutdown(shCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

func toChannels(in []config.ChannelConfig) []model.Channel {
	out := make([]model.Channel, 0, len(in))
	for _, c := range in {
		out = append(out, model.Channel{Name: c.Name, Label: c.Label, Account: c.Account, USSD: c.USSD})
	}
	return out
}

// runNotifyTest sends a connection_test event through the configured chain.
func runNotifyTest(ctx context.Context, d *notify.Dispatcher, logger *zerolog.Logger) int {
	if len(d.Transports()) == 0 {
		logger.Error().Msg("no notification transport configured")
		return 1
	}
	ctx, _ = device.Attach(ctx)
	res := d.Send(ctx, model.NotificationEvent{Kind: model.EventConnectionTest, OccurredAt: time.Now()})
	logger.Info().Bool("delivered", res.Delivered).Str("transport", res.Transport).Msg("notification test")
	if res.Transport == "none" {
		return 1
	}
	return 0
}
