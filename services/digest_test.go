package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compra-app/compra-go/email/templates"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/utils"
)

type recordingSender struct {
	calls []struct {
		storeID string
		digests []templates.SurveyDigest
	}
}

func (r *recordingSender) SendAnalyticsDigest(st *models.Store, digests []templates.SurveyDigest) error {
	r.calls = append(r.calls, struct {
		storeID string
		digests []templates.SurveyDigest
	}{st.ID, digests})
	return nil
}

func seedDigestFixture(t *testing.T) (*store.Database, *models.Store, *models.Survey) {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	st := &models.Store{
		ID:         utils.NewID(),
		ShopDomain: "demo.myshopify.com",
		Email:      "owner@demo.example",
		Settings:   models.StoreSettings{AnalyticsFrequency: "daily"},
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, db.Stores.Insert(ctx, st))

	survey := &models.Survey{
		ID:        utils.NewID(),
		StoreID:   st.ID,
		Title:     "Checkout survey",
		Status:    models.StatusActive,
		Active:    true,
		Questions: []models.Question{{ID: "q1", Type: models.QuestionRating}},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Surveys.Insert(ctx, survey))
	require.NoError(t, db.Analytics.Init(ctx, survey.ID))
	return db, st, survey
}

func TestRunOnceSendsDigest(t *testing.T) {
	db, st, survey := seedDigestFixture(t)
	sender := &recordingSender{}
	svc := NewDigestService(db, sender)
	ctx := context.Background()

	require.NoError(t, db.Analytics.IncrementViews(ctx, survey.ID))
	require.NoError(t, svc.RunOnce(ctx, time.Now()))

	require.Len(t, sender.calls, 1)
	assert.Equal(t, st.ID, sender.calls[0].storeID)
	require.Len(t, sender.calls[0].digests, 1)
	assert.Equal(t, "Checkout survey", sender.calls[0].digests[0].Title)
	assert.Equal(t, 1, sender.calls[0].digests[0].Views)
}

func TestRunOnceHonorsFrequency(t *testing.T) {
	db, _, _ := seedDigestFixture(t)
	sender := &recordingSender{}
	svc := NewDigestService(db, sender)
	ctx := context.Background()

	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RunOnce(ctx, now))
	require.Len(t, sender.calls, 1)

	// An hour later the daily window has not elapsed.
	require.NoError(t, svc.RunOnce(ctx, now.Add(time.Hour)))
	assert.Len(t, sender.calls, 1)

	require.NoError(t, svc.RunOnce(ctx, now.Add(25*time.Hour)))
	assert.Len(t, sender.calls, 2)
}

func TestRunOnceSkipsStoresWithoutEmail(t *testing.T) {
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	require.NoError(t, db.Stores.Insert(ctx, &models.Store{
		ID:         utils.NewID(),
		ShopDomain: "silent.myshopify.com",
		CreatedAt:  time.Now().UTC(),
	}))

	sender := &recordingSender{}
	svc := NewDigestService(db, sender)
	require.NoError(t, svc.RunOnce(ctx, time.Now()))
	assert.Empty(t, sender.calls)
}

func TestFrequencyInterval(t *testing.T) {
	assert.Equal(t, 24*time.Hour, frequencyInterval("daily"))
	assert.Equal(t, 7*24*time.Hour, frequencyInterval("weekly"))
	assert.Equal(t, 30*24*time.Hour, frequencyInterval("monthly"))
	assert.Equal(t, 7*24*time.Hour, frequencyInterval(""))
}
