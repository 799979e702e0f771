package app

import (
	"context"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
)

// startCron schedules the daily maintenance jobs. Currently that is a single
// job pruning the short-retention booking stats out of Redis.
func (app *Application) startCron() error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(4, 0, 0))),
		gocron.NewTask(app.pruneDailyStats),
	)
	if err != nil {
		return err
	}

	scheduler.Start()
	app.cron = scheduler

	return nil
}

func (app *Application) pruneDailyStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -app.config.stats.retentionDays)

	deleted, err := app.statsRepo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		app.logger.Error("failed to prune daily stats", "error", err)
		return
	}

	app.logger.Info("pruned daily stats", "deleted", deleted, "cutoff", cutoff.Format(time.DateOnly))
}
