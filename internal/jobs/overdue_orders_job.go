package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// OverdueOrdersSchedule runs the SLA sweep every ten seconds.
const OverdueOrdersSchedule = "*/10 * * * * *"

// OverdueOrdersFinder is satisfied by queries.GetOverdueOrdersQueryHandler.
type OverdueOrdersFinder interface {
	Handle(ctx context.Context, query queries.GetOverdueOrdersQuery) ([]queries.GetOverdueOrdersQueryResponse, error)
}

// OverdueOrdersJob reports every active order that has run past its delivery
// promise. It only observes; escalation belongs to whoever reads the log.
type OverdueOrdersJob struct {
	finder OverdueOrdersFinder
	cron   *cron.Cron
	logger *slog.Logger
}

func NewOverdueOrdersJob(finder OverdueOrdersFinder, logger *slog.Logger) *OverdueOrdersJob {
	return &OverdueOrdersJob{
		finder: finder,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "overdue_orders_job"),
	}
}

func (j *OverdueOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(OverdueOrdersSchedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue orders job started", "schedule", OverdueOrdersSchedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *OverdueOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Overdue orders job stopped")
}

// run returns the number of overdue orders found.
func (j *OverdueOrdersJob) run(ctx context.Context) int {
	overdue, err := j.finder.Handle(ctx, queries.NewGetOverdueOrdersQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue orders sweep failed", "error", err)
		return 0
	}

	for _, o := range overdue {
		attrs := []any{
			"order_id", o.ID.String(),
			"order_number", o.Number,
			"status", o.Status.String(),
			"elapsed", o.Elapsed.String(),
			"overrun", o.Overrun.String(),
		}
		if o.PartnerID != nil {
			attrs = append(attrs, "partner_id", o.PartnerID.String())
		}
		j.logger.WarnContext(ctx, "Order is past its delivery promise", attrs...)
	}

	return len(overdue)
}
