package main

import (
	"context"
	"log/slog"
	"time"

	"leaguedesk/internal/importer/service"
)

// runSweeper periodically re-runs the auto-link pass so unmatched shift
// records resolve as soon as a later import creates their household, without
// waiting for an operator to trigger the sweep by hand.
func runSweeper(ctx context.Context, log *slog.Logger, svc *service.Service, seasonID string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("auto-link sweeper running", "season_id", seasonID, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			linked, err := svc.AutoLink(ctx, seasonID)
			if err != nil {
				// The next tick retries; a flaky store must not kill
				// the process.
				log.Warn("auto-link sweep failed", "error", err)
				continue
			}
			if linked > 0 {
				log.Info("auto-link sweep linked records", "linked", linked)
			}
		}
	}
}
