package billing

import (
	"time"

	"github.com/Jaydub333/social-wallet-api2/internal/models"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Sweeper deactivates client subscriptions whose billing period has lapsed.
// It runs on the first of every month; Sweep can also be invoked directly.
type Sweeper struct {
	db   *gorm.DB
	cron *cron.Cron
	now  func() time.Time
}

// NewSweeper creates a Sweeper over the given database handle
func NewSweeper(db *gorm.DB) *Sweeper {
	return &Sweeper{
		db:  db,
		now: time.Now,
	}
}

// Start schedules the monthly sweep. Call Stop on shutdown.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("0 0 1 * *", func() {
		if err := s.Sweep(); err != nil {
			log.WithError(err).Error("Subscription sweep failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Info("Subscription billing sweep scheduled")
	return nil
}

// Stop halts the cron scheduler
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep marks every client whose subscription period ended before now as
// inactive. Token exchange refuses such clients until an admin renews them.
func (s *Sweeper) Sweep() error {
	res := s.db.Model(&models.Client{}).
		Where("subscription_active = ? AND subscription_period_end < ?", true, s.now().UTC()).
		Update("subscription_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.WithField("deactivated", res.RowsAffected).Info("Lapsed client subscriptions deactivated")
	}
	return nil
}

// Renew extends a client's subscription by the given number of months and
// reactivates it. Periods extend from the later of now and the current end.
func (s *Sweeper) Renew(clientID string, months int) error {
	var client models.Client
	if err := s.db.Where("id = ?", clientID).First(&client).Error; err != nil {
		return err
	}

	start := s.now().UTC()
	if client.SubscriptionPeriodEnd.After(start) {
		start = client.SubscriptionPeriodEnd
	}

	return s.db.Model(&client).Updates(map[string]interface{}{
		"subscription_active":     true,
		"subscription_period_end": start.AddDate(0, months, 0),
	}).Error
}
