// cmd/voicebot/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ana-voicebot/internal/common/aws"
	"ana-voicebot/internal/common/config"
	"ana-voicebot/internal/common/database"
	commonhttp "ana-voicebot/internal/common/http"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/common/observability"
	"ana-voicebot/internal/dispatch"
	"ana-voicebot/internal/faq"
	"ana-voicebot/internal/flow"
	"ana-voicebot/internal/llm"
	"ana-voicebot/internal/memory"
	"ana-voicebot/internal/notify"
	"ana-voicebot/internal/repository"
	"ana-voicebot/internal/server"
	"ana-voicebot/internal/session"
	"ana-voicebot/internal/speech"
	"ana-voicebot/internal/validate"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting voicebot...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis (conversation memory) with retry ---
	var memoryStore memory.Store
	if cfg.Database.Redis.Enabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		memoryStore = memory.NewRedisStore(redisClient.Client, cfg.Flow.HistoryLimit, log)
	} else {
		zapLog.Info("Redis disabled, conversation memory is in-process only")
	}

	// --- Init PostgreSQL (application persistence) with retry ---
	var repo *repository.Applications
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		repo = repository.NewApplications(pg.DB, log)
	} else {
		zapLog.Info("Postgres disabled, completed applications are not persisted")
	}

	// --- Init notification channels ---
	var notifier notify.Notifier
	if cfg.Notifications.EmailEnabled || cfg.Notifications.SMSEnabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		notifier = notify.NewAWSNotifier(
			sesClient,
			snsClient,
			cfg.Notifications.EmailSender,
			cfg.Notifications.EmailEnabled,
			cfg.Notifications.SMSEnabled,
			log,
		)
		zapLog.Info("Notification channels initialized",
			zap.Bool("email", cfg.Notifications.EmailEnabled),
			zap.Bool("sms", cfg.Notifications.SMSEnabled),
		)
	}

	// --- Init speech and model clients ---
	speechClient := commonhttp.NewClient(time.Duration(cfg.Speech.TimeoutSeconds) * time.Second)

	var transcriber speech.Transcriber
	if cfg.Speech.STTURL != "" {
		transcriber = speech.NewHTTPTranscriber(cfg.Speech.STTURL, cfg.Speech.Language, speechClient, log)
	}
	var synthesizer speech.Synthesizer
	if cfg.Speech.TTSURL != "" {
		synthesizer = speech.NewHTTPSynthesizer(cfg.Speech.TTSURL, cfg.Speech.Language, speechClient, log)
	}

	var model llm.Client
	if cfg.LLM.APIKey != "" {
		model = llm.NewOpenAIClient(cfg.LLM, log)
	} else {
		zapLog.Info("LLM disabled, free chat degrades to canned replies")
	}

	// --- FAQ knowledge base ---
	entries := faq.DefaultEntries()
	if cfg.FAQ.Path != "" {
		loaded, err := faq.LoadFile(cfg.FAQ.Path)
		if err != nil {
			zapLog.Warn("FAQ file rejected, using built-in knowledge base",
				zap.String("path", cfg.FAQ.Path),
				zap.Error(err),
			)
		} else {
			entries = loaded
			zapLog.Info("FAQ knowledge base loaded", zap.String("path", cfg.FAQ.Path), zap.Int("entries", len(loaded)))
		}
	}

	// --- Wire the conversation core ---
	store := session.NewStore(log, session.WithHistoryCap(cfg.Flow.HistoryLimit))
	rules := validate.Rules{
		MinAge:           cfg.Flow.MinAge,
		MaxAge:           cfg.Flow.MaxAge,
		MinMonthlyIncome: cfg.Flow.MinMonthlyIncome,
		MinLoanAmount:    cfg.Flow.MinLoanAmount,
		MaxLoanAmount:    cfg.Flow.MaxLoanAmount,
		MinNameLength:    cfg.Flow.MinNameLength,
		MinAddressLength: cfg.Flow.MinAddressLength,
		MinPurposeLength: cfg.Flow.MinPurposeLength,
	}
	engine := flow.NewEngine(store, rules, cfg.Flow.MaxRetries, log)

	deps := dispatch.Deps{
		Store:        store,
		Engine:       engine,
		FAQ:          faq.NewMatcher(entries, log),
		Obs:          obs,
		HistoryLimit: cfg.Flow.HistoryLimit,
		Log:          log,
	}
	if model != nil {
		deps.LLM = model
	}
	if memoryStore != nil {
		deps.Memory = memoryStore
	}
	if repo != nil {
		deps.Repo = repo
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	dispatcher := dispatch.New(deps)

	// --- Idle session eviction ---
	evictCtx, stopEviction := context.WithCancel(ctx)
	defer stopEviction()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-evictCtx.Done():
				return
			case now := <-ticker.C:
				if evicted := store.EvictIdle(now, cfg.Flow.SessionTimeout()); evicted > 0 {
					obs.RecordSessionsEvicted(evictCtx, evicted)
				}
			}
		}
	}()

	// --- HTTP server ---
	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		zapLog.Fatal("upload dir unavailable", zap.Error(err))
	}

	srv := server.New(
		server.Config{StaticDir: cfg.Server.StaticDir, UploadDir: cfg.Server.UploadDir},
		dispatcher, store, transcriber, synthesizer, log,
	)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Voicebot stopped gracefully")
}
