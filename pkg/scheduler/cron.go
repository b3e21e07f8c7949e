package scheduler

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"uplevel/internal/repositories"
	"uplevel/internal/services"
)

// Scheduler drives the time-based entry points of the compensation core:
// the nightly rank run, the payout retry poll, and autoship order creation.
type Scheduler struct {
	cron            *cron.Cron
	rankService     services.RankServiceInterface
	payoutService   services.PayoutServiceInterface
	autoshipService services.AutoshipServiceInterface
	distributorRepo repositories.IDistributorRepository
	workerID        string
}

func New(
	rankService services.RankServiceInterface,
	payoutService services.PayoutServiceInterface,
	autoshipService services.AutoshipServiceInterface,
	distributorRepo repositories.IDistributorRepository,
) *Scheduler {
	workerID, _ := os.Hostname()
	if workerID == "" {
		workerID = "payout-worker"
	}
	return &Scheduler{
		cron:            cron.New(),
		rankService:     rankService,
		payoutService:   payoutService,
		autoshipService: autoshipService,
		distributorRepo: distributorRepo,
		workerID:        workerID,
	}
}

func (s *Scheduler) Start() error {

	// Nightly rank advancement over every active distributor.
	if _, err := s.cron.AddFunc("0 2 * * *", s.runRankAdvancement); err != nil {
		return err
	}

	// Payout retry poll; the handler claims each payment before submitting.
	if _, err := s.cron.AddFunc("*/5 * * * *", s.runPayoutRetries); err != nil {
		return err
	}

	// Daily autoship order creation.
	if _, err := s.cron.AddFunc("0 4 * * *", s.runAutoships); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		log.Println("Scheduler stop timed out waiting for running jobs")
	}
}

func (s *Scheduler) runRankAdvancement() {
	ctx := context.Background()

	ids, err := s.distributorRepo.ListActiveIDs(ctx)
	if err != nil {
		log.Printf("rank job: listing active distributors failed: %v", err)
		return
	}

	advanced := 0
	for _, id := range ids {
		result, err := s.rankService.ProcessRankAdvancement(ctx, id)
		if err != nil {
			log.Printf("rank job: advancement failed for %s: %v", id, err)
			continue
		}
		if result != nil {
			advanced++
		}
	}
	log.Printf("rank job: checked %d distributors, advanced %d", len(ids), advanced)
}

func (s *Scheduler) runPayoutRetries() {
	processed, err := s.payoutService.ProcessDueRetries(context.Background(), s.workerID)
	if err != nil {
		log.Printf("payout job: retry run failed: %v", err)
		return
	}
	if processed > 0 {
		log.Printf("payout job: completed %d retried payments", processed)
	}
}

func (s *Scheduler) runAutoships() {
	created, err := s.autoshipService.RunDue(context.Background())
	if err != nil {
		log.Printf("autoship job: run failed: %v", err)
		return
	}
	log.Printf("autoship job: created %d orders", created)
}
