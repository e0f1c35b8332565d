// Package worker runs background maintenance jobs on a cron schedule.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/evrenos/tour-booking/internal/repository"
)

// Stale pending bookings are cancelled this long after their booking date.
// No refund is attempted: a booking that never left pending never had its
// advance confirmed.
const pendingGrace = 48 * time.Hour

// Sweeper owns the periodic cleanup jobs: expired password-reset tokens and
// bookings stuck in pending long past their date.
type Sweeper struct {
	cron     *cron.Cron
	users    *repository.UserRepo
	bookings *repository.BookingRepo
	log      zerolog.Logger
}

func NewSweeper(users *repository.UserRepo, bookings *repository.BookingRepo, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		users:    users,
		bookings: bookings,
		log:      log,
	}
}

// Start registers the jobs and starts the cron loop. Job errors are logged
// and the schedule keeps running.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("*/15 * * * *", s.purgeResetTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.expireStaleBookings); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Msg("maintenance sweeper started")
	return nil
}

// Stop halts the schedule and waits for running jobs to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("maintenance sweeper stopped")
}

func (s *Sweeper) purgeResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := s.users.PurgeExpiredResetTokens(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reset token purge failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("purged", n).Msg("expired reset tokens cleared")
	}
}

func (s *Sweeper) expireStaleBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := s.bookings.ExpireStalePending(ctx, pendingGrace)
	if err != nil {
		s.log.Error().Err(err).Msg("stale booking sweep failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("cancelled", n).Msg("stale pending bookings cancelled")
	}
}
