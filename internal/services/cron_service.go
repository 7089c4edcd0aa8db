package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vahango/rental-gateway/internal/database"
)

const (
	// abandonedCheckoutCutoff is how long a checkout may sit at the redirect
	// step before the sweep flags it abandoned
	abandonedCheckoutCutoff = 45 * time.Minute

	// reconcileInterval matches the sweep schedule; the failure count looks
	// back one interval
	reconcileInterval = 15 * time.Minute

	// failureAlertThreshold is the per-interval checkout failure count above
	// which the sweep warns about upstream degradation
	failureAlertThreshold = 10
)

// CronService manages scheduled background jobs
type CronService struct {
	cron    *cron.Cron
	catalog *CatalogService
	audits  *database.CheckoutAuditRepository
}

// NewCronService creates a new CronService
func NewCronService(catalog *CatalogService, audits *database.CheckoutAuditRepository) *CronService {
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:    c,
		catalog: catalog,
		audits:  audits,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	// Job 1: refresh the catalog snapshot every 10 minutes
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 */10 * * * *", s.refreshCatalogJob)
	if err != nil {
		return fmt.Errorf("failed to schedule catalog refresh job: %w", err)
	}
	log.Println("Scheduled: catalog snapshot refresh (every 10 minutes)")

	// Job 2: sweep abandoned checkouts every 15 minutes
	_, err = s.cron.AddFunc("0 */15 * * * *", s.reconcileCheckoutsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}
	log.Println("Scheduled: abandoned checkout sweep (every 15 minutes)")

	s.cron.Start()
	log.Println("Cron service started")

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	log.Println("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron service stopped")
}

// refreshCatalogJob refetches the catalog fallback snapshot
func (s *CronService) refreshCatalogJob() {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.catalog.RefreshSnapshot(ctx); err != nil {
		log.Printf("[CRON ERROR] Catalog refresh failed: %v\n", err)
		return
	}

	log.Printf("[CRON] Catalog snapshot refreshed in %v\n", time.Since(startTime))
}

// reconcileCheckoutsJob flags checkouts that were handed off to the payment
// gateway but never came back. The checkout pipeline deliberately leaves
// each attempt's pending booking in place, so the sweep is what makes those
// strays visible to operators.
func (s *CronService) reconcileCheckoutsJob() {
	cutoff := time.Now().Add(-abandonedCheckoutCutoff)

	flagged, err := s.audits.MarkAbandonedBefore(cutoff)
	if err != nil {
		log.Printf("[CRON ERROR] Checkout reconciliation failed: %v\n", err)
		return
	}

	if flagged > 0 {
		log.Printf("[CRON] Flagged %d abandoned checkouts\n", flagged)
	}

	failures, err := s.audits.CountFailuresSince(time.Now().Add(-reconcileInterval))
	if err != nil {
		log.Printf("[CRON ERROR] Checkout failure count failed: %v\n", err)
		return
	}

	if failures > failureAlertThreshold {
		log.Printf("[CRON ERROR] %d checkout failures in the last %v - marketplace may be degraded\n", failures, reconcileInterval)
	}
}
