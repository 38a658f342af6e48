package di

import (
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"signal-desk/internal/adapter/engine"
	"signal-desk/internal/adapter/repository"
	"signal-desk/internal/domain"
	"signal-desk/internal/infra/config"
	"signal-desk/internal/infra/httpclient"
	"signal-desk/internal/usecase"
	"signal-desk/internal/worker"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Repositories
	SignalRepo    domain.SignalRepository
	HighlightRepo domain.HighlightRepository
	ThoughtRepo   domain.ThoughtRepository
	InsightRepo   domain.InsightRepository
	WebhookRepo   domain.WebhookConfigRepository

	// Engine adapters
	Registry   *engine.Registry
	Dispatcher *engine.WebhookDispatcher

	// Usecases
	CaptureUsecase       usecase.CaptureSignalUsecase
	ReviewUsecase        usecase.ReviewSignalUsecase
	ClusterUsecase       usecase.ClusterSignalsUsecase
	FormatUsecase        usecase.FormatInsightUsecase
	PublishUsecase       usecase.PublishInsightUsecase
	ReconcileUsecase     usecase.ReconcileSignalUsecase
	ManageInsightUsecase usecase.ManageInsightUsecase

	// Worker
	Sweeper *worker.Sweeper
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) *ApplicationComponents {
	// Repositories
	signalRepo := repository.NewSignalRepository(pool)
	highlightRepo := repository.NewHighlightRepository(pool)
	thoughtRepo := repository.NewThoughtRepository(pool)
	insightRepo := repository.NewInsightRepository(pool)
	webhookRepo := repository.NewWebhookConfigRepository(pool)
	txManager := repository.NewPostgresTransactionManager(pool)

	// Outbound webhook path: registry with resolve cache, rate-limited
	// dispatcher over a shared pooled HTTP client.
	dispatchTimeout := time.Duration(cfg.DispatchTimeout) * time.Second
	registry := engine.NewRegistry(webhookRepo, time.Duration(cfg.WebhookCacheTTL)*time.Second)
	dispatchHTTP := httpclient.NewPooledClient(dispatchTimeout)
	dispatcher := engine.NewWebhookDispatcher(
		registry,
		dispatchTimeout,
		cfg.DispatchRate,
		cfg.DispatchBurst,
		log,
		dispatchHTTP,
	)

	// Usecases
	captureUsecase := usecase.NewCaptureSignalUsecase(signalRepo, dispatcher, log)
	reviewUsecase := usecase.NewReviewSignalUsecase(signalRepo, thoughtRepo, dispatcher, log)
	clusterUsecase := usecase.NewClusterSignalsUsecase(signalRepo, dispatcher, log)
	formatUsecase := usecase.NewFormatInsightUsecase(insightRepo, thoughtRepo, signalRepo, dispatcher, log)
	publishUsecase := usecase.NewPublishInsightUsecase(insightRepo, dispatcher, log)
	reconcileUsecase := usecase.NewReconcileSignalUsecase(
		signalRepo,
		time.Duration(cfg.DedupWindow)*time.Minute,
		log,
	)
	manageInsightUsecase := usecase.NewManageInsightUsecase(insightRepo, thoughtRepo, txManager, log)

	// An in-flight insight is stuck once its dispatch deadline plus grace
	// has passed without a callback.
	staleAfter := dispatchTimeout + time.Duration(cfg.SweepGrace)*time.Second
	sweeper := worker.NewSweeper(
		insightRepo,
		time.Duration(cfg.SweepInterval)*time.Second,
		staleAfter,
		log,
	)

	return &ApplicationComponents{
		SignalRepo:           signalRepo,
		HighlightRepo:        highlightRepo,
		ThoughtRepo:          thoughtRepo,
		InsightRepo:          insightRepo,
		WebhookRepo:          webhookRepo,
		Registry:             registry,
		Dispatcher:           dispatcher,
		CaptureUsecase:       captureUsecase,
		ReviewUsecase:        reviewUsecase,
		ClusterUsecase:       clusterUsecase,
		FormatUsecase:        formatUsecase,
		PublishUsecase:       publishUsecase,
		ReconcileUsecase:     reconcileUsecase,
		ManageInsightUsecase: manageInsightUsecase,
		Sweeper:              sweeper,
	}
}
