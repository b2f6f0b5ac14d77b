package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ClaimableBroadcastSchedule re-announces unclaimed orders every fifteen seconds.
const ClaimableBroadcastSchedule = "*/15 * * * * *"

// ClaimableRebroadcaster is satisfied by commands.RebroadcastClaimableCommandHandler.
type ClaimableRebroadcaster interface {
	Handle(ctx context.Context, cmd commands.RebroadcastClaimableCommand) (int, error)
}

// ClaimableBroadcastJob reminds online partners about orders still waiting
// for pickup, in case they missed the first announcement.
type ClaimableBroadcastJob struct {
	handler ClaimableRebroadcaster
	limit   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewClaimableBroadcastJob(handler ClaimableRebroadcaster, limit int, logger *slog.Logger) *ClaimableBroadcastJob {
	if limit <= 0 {
		limit = commands.DefaultRebroadcastLimit
	}
	return &ClaimableBroadcastJob{
		handler: handler,
		limit:   limit,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "claimable_broadcast_job"),
	}
}

func (j *ClaimableBroadcastJob) Start() error {
	if _, err := j.cron.AddFunc(ClaimableBroadcastSchedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Claimable broadcast job started", "schedule", ClaimableBroadcastSchedule)
	return nil
}

func (j *ClaimableBroadcastJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Claimable broadcast job stopped")
}

func (j *ClaimableBroadcastJob) run(ctx context.Context) {
	cmd, err := commands.NewRebroadcastClaimableCommand(j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid rebroadcast command", "error", err)
		return
	}

	announced, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Claimable broadcast failed", "error", err, "announced", announced)
		return
	}
	if announced > 0 {
		j.logger.DebugContext(ctx, "Claimable orders re-announced", "count", announced)
	}
}
