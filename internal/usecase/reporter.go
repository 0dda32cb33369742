package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-matchmaker/internal/entity"
)

const (
	defaultReportBuffer  = 256
	defaultReportTimeout = 5 * time.Second
)

type resultRepo interface {
	Save(ctx context.Context, result *entity.MatchResult) error
}

type eventPublisher interface {
	PublishStarted(ctx context.Context, started *entity.MatchStarted) error
	PublishConcluded(ctx context.Context, result *entity.MatchResult) error
}

type report struct {
	started *entity.MatchStarted
	result  *entity.MatchResult
}

// Reporter moves match bookkeeping off the event loop. Reports are queued without blocking and
// written to the result store and the event bus by Run. Either sink may be nil.
type Reporter struct {
	logger    *slog.Logger
	results   resultRepo
	publisher eventPublisher
	timeout   time.Duration

	reports chan report
}

func NewReporter(logger *slog.Logger, results resultRepo, publisher eventPublisher, buffer int) *Reporter {
	if buffer <= 0 {
		buffer = defaultReportBuffer
	}

	return &Reporter{
		logger:    logger.With("component", "reporter"),
		results:   results,
		publisher: publisher,
		timeout:   defaultReportTimeout,
		reports:   make(chan report, buffer),
	}
}

func (that *Reporter) MatchStarted(started *entity.MatchStarted) {
	that.enqueue(report{started: started})
}

func (that *Reporter) MatchConcluded(result *entity.MatchResult) {
	that.enqueue(report{result: result})
}

func (that *Reporter) enqueue(r report) {
	select {
	case that.reports <- r:
	default:
		that.logger.Warn("report buffer is full, dropping report")
	}
}

// Run writes queued reports until ctx is canceled, then flushes what is left and returns.
func (that *Reporter) Run(ctx context.Context) {
	for {
		select {
		case r := <-that.reports:
			that.handle(r)
		case <-ctx.Done():
			that.flush()
			return
		}
	}
}

func (that *Reporter) flush() {
	for {
		select {
		case r := <-that.reports:
			that.handle(r)
		default:
			return
		}
	}
}

// handle is detached from Run's context so that reports drained during shutdown still reach
// the sinks.
func (that *Reporter) handle(r report) {
	log := that.logger.With("method", "handle")

	ctx, cancel := context.WithTimeout(context.Background(), that.timeout)
	defer cancel()

	if r.started != nil {
		if that.publisher != nil {
			if err := that.publisher.PublishStarted(ctx, r.started); err != nil {
				log.Error("failed to publish match start", "match", r.started.ID, "error", err)
			}
		}

		return
	}

	if that.results != nil {
		if err := that.results.Save(ctx, r.result); err != nil {
			log.Error("failed to save match result", "match", r.result.ID, "error", err)
		}
	}

	if that.publisher != nil {
		if err := that.publisher.PublishConcluded(ctx, r.result); err != nil {
			log.Error("failed to publish match result", "match", r.result.ID, "error", err)
		}
	}
}
