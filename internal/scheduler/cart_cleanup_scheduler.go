package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
)

// staleAfter is how long an untouched cart item survives.
const staleAfter = 30 * 24 * time.Hour

// CartCleanupScheduler removes cart items that have not been touched for
// 30 days, once a day.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
	}
}

func (s *CartCleanupScheduler) Start() error {
	// Daily at 03:00, off the traffic peak.
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled stale cart cleanup", nil)

		cutoff := time.Now().Add(-staleAfter)
		deleted, err := s.cartRepo.DeleteItemsOlderThan(cutoff)
		if err != nil {
			logger.Error("Failed to clean up stale cart items", err)
			return
		}

		logger.Info("Stale cart cleanup finished", map[string]interface{}{
			"deleted": deleted,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 3:00 AM)", nil)

	return nil
}

func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
