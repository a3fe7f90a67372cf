package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/studypilot/studypilot-back/internal/config"
	"github.com/studypilot/studypilot-back/internal/logger"
	"github.com/studypilot/studypilot-back/internal/planner"
)

const jobTimeout = 10 * time.Minute

type MissedStore interface {
	UsersWithMissedSessions(ctx context.Context, today string) ([]string, error)
}

type GuestStore interface {
	StaleGuestIDs(ctx context.Context, cutoff time.Time) ([]string, error)
	DeleteUserData(ctx context.Context, userID string) error
}

type Store interface {
	MissedStore
	GuestStore
}

type MissedRescheduler interface {
	RescheduleMissed(ctx context.Context, userID string) (int, error)
}

// RescheduleAllMissed runs the missed-session rescheduler for every user that
// has incomplete sessions before today. One failing user does not stop the rest.
func RescheduleAllMissed(ctx context.Context, store MissedStore, r MissedRescheduler, now time.Time, log *logger.Logger) (int, error) {
	today := planner.FormatDate(planner.Today(now))
	users, err := store.UsersWithMissedSessions(ctx, today)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, userID := range users {
		n, err := r.RescheduleMissed(ctx, userID)
		if err != nil {
			log.Warn("auto reschedule failed", "user_id", userID, "error", err)
			continue
		}
		moved += n
	}
	return moved, nil
}

// PurgeStaleGuests deletes guest data untouched for retentionDays.
func PurgeStaleGuests(ctx context.Context, store GuestStore, now time.Time, retentionDays int, log *logger.Logger) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	ids, err := store.StaleGuestIDs(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, id := range ids {
		if err := store.DeleteUserData(ctx, id); err != nil {
			log.Warn("guest purge failed", "user_id", id, "error", err)
			continue
		}
		purged++
	}
	return purged, nil
}

func StartJobs(cfg *config.Config, store Store, r MissedRescheduler, baseLog *logger.Logger) (*cron.Cron, error) {
	log := baseLog.With("component", "Cron")
	c := cron.New()

	if cfg.AutoRescheduleSpec != "" {
		_, err := c.AddFunc(cfg.AutoRescheduleSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			log.Info("running auto reschedule job")
			n, err := RescheduleAllMissed(ctx, store, r, time.Now(), log)
			if err != nil {
				log.Error("auto reschedule job failed", "error", err)
				return
			}
			log.Info("auto reschedule job done", "moved", n)
		})
		if err != nil {
			return nil, err
		}
	}

	if _, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		n, err := PurgeStaleGuests(ctx, store, time.Now(), cfg.GuestRetentionDays, log)
		if err != nil {
			log.Error("guest purge job failed", "error", err)
			return
		}
		log.Info("guest purge job done", "purged", n)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
