package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/models"
	"github.com/BruksfildServices01/barberflow/internal/timezone"
)

// StartJobs agenda a varredura noturna da fila: entradas de dias
// passados que nunca foram atendidas viram cancelled e saem da fila.
func StartJobs(db *gorm.DB, repo domain.Repository) *cron.Cron {
	c := cron.New()

	// 00:10 todo dia
	if _, err := c.AddFunc("10 0 * * *", func() {
		sweepStaleQueue(db, repo)
	}); err != nil {
		log.Fatalf("failed to add cron job: %v", err)
	}

	c.Start()
	log.Println("cron started: nightly queue sweep")
	return c
}

func sweepStaleQueue(db *gorm.DB, repo domain.Repository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := timezone.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stale []models.Appointment
	if err := db.WithContext(ctx).
		Where(
			"type = 'queue' AND status IN ('pending', 'scheduled') AND date < ?",
			today,
		).
		Find(&stale).Error; err != nil {
		log.Println("queue sweep query error:", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	for i := range stale {
		ap := &stale[i]
		if err := domain.Cancel(ap, now); err != nil {
			continue
		}
		if err := repo.UpdateAppointment(ctx, ap); err != nil {
			log.Printf("queue sweep: failed to cancel appointment %d: %v", ap.ID, err)
		}
	}

	log.Printf("queue sweep: cancelled %d stale queue entries", len(stale))
}
