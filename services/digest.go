// Package services hosts the background jobs that run beside the API.
package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/compra-app/compra-go/email/templates"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
)

// DigestSender is the slice of the email client the digest job uses.
type DigestSender interface {
	SendAnalyticsDigest(store *models.Store, digests []templates.SurveyDigest) error
}

// DigestService periodically emails each store its survey performance,
// honoring the store's analyticsFrequency setting.
type DigestService struct {
	db     *store.Database
	sender DigestSender

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewDigestService(db *store.Database, sender DigestSender) *DigestService {
	return &DigestService{
		db:       db,
		sender:   sender,
		lastSent: make(map[string]time.Time),
	}
}

// Run checks on the given interval which stores are due and sends their
// digests. Blocks until the context is cancelled.
func (s *DigestService) Run(ctx context.Context, checkInterval time.Duration) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx, time.Now()); err != nil {
				log.Printf("Digest run failed: %v", err)
			}
		}
	}
}

// RunOnce sends digests to every store whose frequency window has elapsed.
func (s *DigestService) RunOnce(ctx context.Context, now time.Time) error {
	stores, err := s.db.Stores.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, st := range stores {
		if st.Settings.NotificationEmail == "" && st.Email == "" {
			continue
		}
		if !s.due(st, now) {
			continue
		}
		if err := s.sendStoreDigest(ctx, st, now); err != nil {
			log.Printf("Digest for store %s failed: %v", st.ID, err)
			continue
		}
		s.markSent(st.ID, now)
	}
	return nil
}

func (s *DigestService) due(st *models.Store, now time.Time) bool {
	s.mu.Lock()
	last, sent := s.lastSent[st.ID]
	s.mu.Unlock()
	if !sent {
		return true
	}
	return now.Sub(last) >= frequencyInterval(st.Settings.AnalyticsFrequency)
}

func (s *DigestService) markSent(storeID string, now time.Time) {
	s.mu.Lock()
	s.lastSent[storeID] = now
	s.mu.Unlock()
}

func (s *DigestService) sendStoreDigest(ctx context.Context, st *models.Store, now time.Time) error {
	surveys, err := s.db.Surveys.FindByStore(ctx, st.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	last, sent := s.lastSent[st.ID]
	s.mu.Unlock()
	var since *time.Time
	if sent {
		since = &last
	}

	var digests []templates.SurveyDigest
	for _, survey := range surveys {
		rollup, err := s.db.Analytics.FindBySurvey(ctx, survey.ID)
		if err != nil {
			return err
		}
		if rollup == nil {
			continue
		}

		recent, err := s.db.Responses.FindBySurveyBetween(ctx, survey.ID, since, nil)
		if err != nil {
			return err
		}

		digests = append(digests, templates.SurveyDigest{
			Title:          survey.Title,
			Views:          rollup.Views,
			Completions:    rollup.Completions,
			CompletionRate: rollup.CompletionRate,
			NewResponses:   len(recent),
		})
	}

	return s.sender.SendAnalyticsDigest(st, digests)
}

func frequencyInterval(frequency string) time.Duration {
	switch frequency {
	case "daily":
		return 24 * time.Hour
	case "monthly":
		return 30 * 24 * time.Hour
	default: // weekly
		return 7 * 24 * time.Hour
	}
}
