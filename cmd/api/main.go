package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/wizard-sync/internal/config"
	"github.com/xavierca1/wizard-sync/internal/infra/database"
	"github.com/xavierca1/wizard-sync/internal/infra/http/handlers"
	"github.com/xavierca1/wizard-sync/internal/infra/http/middleware"
	"github.com/xavierca1/wizard-sync/internal/infra/integration/ghl"
	"github.com/xavierca1/wizard-sync/internal/infra/integration/sheets"
	"github.com/xavierca1/wizard-sync/internal/infra/mail"
	"github.com/xavierca1/wizard-sync/internal/infra/queue"
	"github.com/xavierca1/wizard-sync/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	leadRepo := database.NewLeadRepository(db, cfg.Database.Driver)
	if err := leadRepo.Migrate(ctx); err != nil {
		return err
	}

	// 2. Integrations
	recorder := middleware.StepMetrics{}
	deps := newIntegrations(ctx, cfg, logger, recorder)

	// 3. UseCases
	processUC := usecase.NewProcessSubmissionUseCase(
		leadRepo,
		deps.crm,
		deps.sheet,
		deps.notifier,
		recorder,
		logger.Named("submission"),
	)
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, logger.Named("capture"))

	g, gctx := errgroup.WithContext(ctx)

	// 4. Replay queue (optional)
	var replays usecase.ReplayPublisher
	var queueHealth handlers.HealthChecker
	if cfg.Queue.Enabled() {
		mq, err := queue.NewRabbitMQ(cfg.Queue.URL)
		if err != nil {
			logger.Error("rabbitmq unavailable, replay disabled", zap.Error(err))
		} else {
			defer mq.Close() //nolint:errcheck
			replays = queue.NewProducer(mq.Ch)
			queueHealth = mq

			worker := queue.NewWorker(mq.Ch, processUC, logger.Named("worker"))
			g.Go(func() error {
				if err := worker.Start(gctx, queue.QueueName); err != nil {
					logger.Error("replay worker exited", zap.Error(err))
				}
				return nil
			})
		}
	} else {
		logger.Info("RABBITMQ_URL not set, replay disabled")
	}

	// 5. Handlers
	limiter := handlers.NewRateLimiter(cfg.HTTP.RateLimit, 10*time.Minute)
	defer limiter.Stop()

	router := newRouter(routerDeps{
		Wizard: handlers.NewWizardHandler(processUC, logger.Named("wizard")),
		Leads:  handlers.NewLeadHandler(captureUC, leadRepo, replays, logger.Named("leads")),
		Health: handlers.NewHealthHandler(db, queueHealth, map[string]bool{
			"ghl":    deps.crm != nil,
			"sheets": deps.sheet != nil,
			"mail":   deps.notifier != nil,
		}),
		Limiter:        limiter,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            logger.Named("http"),
	})

	// 6. Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("wizard-sync api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type integrations struct {
	crm      usecase.CRMSyncer
	sheet    usecase.SheetAppender
	notifier usecase.LeadNotifier
}

// newIntegrations builds the enabled downstream clients. A missing setting
// disables that integration; it never stops the server.
func newIntegrations(ctx context.Context, cfg *config.Config, logger *zap.Logger, recorder usecase.StepRecorder) integrations {
	var out integrations

	if cfg.GHL.Enabled() {
		client := ghl.NewClient(cfg.GHL.APIKey, cfg.GHL.LocationID,
			ghl.WithBaseURL(cfg.GHL.BaseURL),
			ghl.WithTimeout(cfg.GHL.Timeout),
			ghl.WithRateLimit(cfg.GHL.RateLimit),
			ghl.WithLogger(logger.Named("ghl")),
		)
		out.crm = usecase.NewCRMSync(client, usecase.CRMSyncConfig{
			PipelineID: cfg.GHL.PipelineID,
			StageName:  cfg.GHL.StageName,
		}, logger.Named("crm"), recorder)
		if cfg.GHL.PipelineID == "" {
			logger.Info("GHL_PIPELINE_ID not set, opportunities disabled")
		}
	} else {
		logger.Warn("GHL_API_KEY not set, CRM sync disabled")
	}

	if cfg.Sheets.Enabled() {
		creds, err := sheetCredentials(cfg.Sheets)
		if err != nil {
			logger.Error("google sheets credentials invalid, sheet sync disabled", zap.Error(err))
		} else {
			out.sheet = sheets.NewClient(cfg.Sheets.SpreadsheetID,
				sheets.WithHTTPClient(creds.HTTPClient(ctx, cfg.Sheets.Timeout)),
				sheets.WithRange(cfg.Sheets.Range),
				sheets.WithLogger(logger.Named("sheets")),
			)
		}
	} else {
		logger.Warn("GOOGLE_SHEET_ID not set, sheet sync disabled")
	}

	if cfg.Mail.Enabled() {
		out.notifier = mail.NewEmailSender(
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
			cfg.Mail.From, splitList(cfg.Mail.NotifyTo),
		)
	}

	return out
}

func sheetCredentials(cfg config.SheetsConfig) (sheets.Credentials, error) {
	if cfg.CredentialsFile != "" {
		return sheets.LoadCredentialsFile(cfg.CredentialsFile)
	}
	creds := sheets.Credentials{ClientEmail: cfg.ClientEmail, PrivateKey: cfg.PrivateKey}
	return creds, creds.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
