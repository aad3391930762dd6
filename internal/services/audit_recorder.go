package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/internal/infrastructure/audit"
	"github.com/authflow/session-gateway/usecase"
)

// RecorderConfig controls queueing and retention of the audit trail.
type RecorderConfig struct {
	QueueSize       int
	SummaryInterval time.Duration
	Retention       time.Duration
}

// AuditRecorder persists security events off the request path. Record never
// blocks: when the queue is full the event is dropped and counted, because
// audit loss must not stall validation.
type AuditRecorder struct {
	store  *audit.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    RecorderConfig

	events  chan audit.Event
	done    chan struct{}
	dropped chan struct{}
}

func NewAuditRecorder(store *audit.Store, logger *zap.Logger, cfg RecorderConfig) *AuditRecorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.SummaryInterval <= 0 {
		cfg.SummaryInterval = time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &AuditRecorder{
		store:   store,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		events:  make(chan audit.Event, cfg.QueueSize),
		done:    make(chan struct{}),
		dropped: make(chan struct{}, 1),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.SummaryInterval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, r.report)

	return r
}

// Record implements usecase.AuditTrail.
func (r *AuditRecorder) Record(event usecase.SecurityEvent) {
	if r == nil {
		return
	}
	select {
	case r.events <- audit.Event{
		Kind:      event.Kind,
		SessionID: event.SessionID,
		UserID:    event.UserID,
		IP:        event.IP,
		Reason:    event.Reason,
	}:
	default:
		select {
		case r.dropped <- struct{}{}:
		default:
		}
	}
}

// Start launches the consumer goroutine and the summary scheduler.
func (r *AuditRecorder) Start() {
	if r == nil {
		return
	}
	go r.consume()
	r.cron.Start()
	r.logger.Info("audit recorder started")
}

// Stop drains the queue and stops the scheduler.
func (r *AuditRecorder) Stop(ctx context.Context) {
	if r == nil {
		return
	}
	close(r.done)
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("audit recorder stopped")
}

func (r *AuditRecorder) consume() {
	for {
		select {
		case event := <-r.events:
			if err := r.store.Append(event); err != nil {
				r.logger.Error("failed to persist audit event",
					zap.String("kind", event.Kind),
					zap.Error(err))
			}
		case <-r.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case event := <-r.events:
					if err := r.store.Append(event); err != nil {
						r.logger.Error("failed to persist audit event",
							zap.String("kind", event.Kind),
							zap.Error(err))
					}
				default:
					return
				}
			}
		}
	}
}

// report logs the trail size and enforces retention.
func (r *AuditRecorder) report() {
	select {
	case <-r.dropped:
		r.logger.Warn("audit events dropped since last summary (queue full)")
	default:
	}

	removed, err := r.store.Prune(time.Now().Add(-r.cfg.Retention))
	if err != nil {
		r.logger.Error("audit retention prune failed", zap.Error(err))
		return
	}

	size, err := r.store.Size()
	if err != nil {
		r.logger.Error("audit size check failed", zap.Error(err))
		return
	}

	r.logger.Info("audit trail summary",
		zap.Int("events", size),
		zap.Int("pruned", removed))
}

var _ usecase.AuditTrail = (*AuditRecorder)(nil)
