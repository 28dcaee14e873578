// Package scheduler runs the periodic reminder sweep. It reads events and
// registrations, mails registrants of events happening within a day, and
// keeps its failures out of the request-serving paths entirely.
package scheduler

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/ManrajDhatt/Pet-Haven/mailer"
	"github.com/ManrajDhatt/Pet-Haven/models"
)

// Reminder owns the sweep loop.
type Reminder struct {
	db    *bun.DB
	mail  mailer.Mailer
	log   *zap.Logger
	every time.Duration
}

// New builds a reminder sweeper.
func New(db *bun.DB, mail mailer.Mailer, log *zap.Logger, every time.Duration) *Reminder {
	return &Reminder{db: db, mail: mail, log: log, every: every}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (r *Reminder) Run(ctx context.Context) {
	r.sweep(ctx)

	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("reminder sweep stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// reminderRow joins a registration with its owner's contact details.
type reminderRow struct {
	Email    string `bun:"email"`
	Username string `bun:"username"`
}

func (r *Reminder) sweep(ctx context.Context) {
	now := time.Now()

	var events []models.Event
	if err := r.db.NewSelect().Model(&events).Scan(ctx); err != nil {
		r.log.Error("reminder sweep: loading events", zap.Error(err))
		return
	}

	sent := 0
	for i := range events {
		event := &events[i]
		if !DueForReminder(event.Date, now) {
			continue
		}

		var rows []reminderRow
		err := r.db.NewSelect().
			TableExpr("registrations AS rg").
			ColumnExpr("u.email, u.username").
			Join("INNER JOIN users u ON u.id = rg.user_id").
			Where("rg.event_id = ?", event.ID).
			Scan(ctx, &rows)
		if err != nil {
			r.log.Error("reminder sweep: loading registrations",
				zap.Int("event_id", event.ID), zap.Error(err))
			continue
		}

		for _, row := range rows {
			if err := r.mail.SendReminder(row.Email, row.Username, event); err != nil {
				r.log.Warn("reminder sweep: send failed",
					zap.Int("event_id", event.ID), zap.String("to", row.Email), zap.Error(err))
				continue
			}
			sent++
		}
	}

	r.log.Info("reminder sweep complete", zap.Int("reminders_sent", sent))
}

// DueForReminder reports whether an event dated date (YYYY-MM-DD) is close
// enough for a reminder: today or tomorrow, never already past.
func DueForReminder(date string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return false
	}
	today := now.Format("2006-01-02")
	return date >= today && !d.After(now.AddDate(0, 0, 1))
}
