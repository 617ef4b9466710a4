package jobs

import (
	"log"
	"time"

	"hotel-booking-server/database"
	"hotel-booking-server/services"
)

// ExpirationJob periodically expires unpaid bookings whose hold window has
// elapsed. The lazy on-read sweep remains authoritative; this job only keeps
// inventory from sitting held for rooms nobody is looking at. Every sweep is
// guarded and idempotent, so the two paths never double-release a unit.
type ExpirationJob struct {
	sweeper  *services.ExpirySweeper
	interval time.Duration
	stopChan chan bool
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob(sweeper *services.ExpirySweeper, interval time.Duration) *ExpirationJob {
	return &ExpirationJob{
		sweeper:  sweeper,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Booking expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Booking expiration job stopped")
}

// run executes the expiration job
func (j *ExpirationJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

// sweep expires every booking past its hold window
func (j *ExpirationJob) sweep() {
	swept, err := j.sweeper.SweepDue(database.DB)
	if err != nil {
		log.Printf("❌ Error sweeping expired bookings: %v", err)
		return
	}
	if swept > 0 {
		log.Printf("⏰ Expired %d overdue bookings", swept)
	}
}
