package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/compra-app/compra-go/models"
)

// AnalyticsRepository persists the per-survey rollup. Counter updates are
// expressed as atomic increments so concurrent submissions never race a
// read-modify-write cycle; fields recomputed from a full scan (averages,
// per-question breakdowns) are written by ReplaceComputed and tolerate a
// benign last-writer-wins window.
type AnalyticsRepository struct {
	db *sql.DB
}

// Init creates the zeroed rollup row alongside survey creation.
func (r *AnalyticsRepository) Init(ctx context.Context, surveyID string) error {
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO survey_analytics (survey_id, demographics, created_at, updated_at)
		 VALUES (?, '{}', ?, ?)
		 ON CONFLICT(survey_id) DO NOTHING`,
		surveyID, now, now)
	if err != nil {
		return fmt.Errorf("failed to init analytics: %w", err)
	}
	return nil
}

// FindBySurvey returns the rollup, or nil when it does not exist.
func (r *AnalyticsRepository) FindBySurvey(ctx context.Context, surveyID string) (*models.SurveyAnalytics, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT survey_id, views, completions, average_time_spent, completion_rate,
			question_analytics, demographics, created_at, updated_at
		 FROM survey_analytics WHERE survey_id = ?`, surveyID)

	var a models.SurveyAnalytics
	var questions, demographics, createdAt, updatedAt string
	err := row.Scan(&a.SurveyID, &a.Views, &a.Completions, &a.AverageTimeSpent,
		&a.CompletionRate, &questions, &demographics, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan analytics row: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &a.QuestionAnalytics); err != nil {
		return nil, fmt.Errorf("failed to decode question analytics: %w", err)
	}
	if err := json.Unmarshal([]byte(demographics), &a.Demographics); err != nil {
		return nil, fmt.Errorf("failed to decode demographics: %w", err)
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

// IncrementViews counts one survey display. Views are an explicit operation;
// fetching a survey never counts a view implicitly.
func (r *AnalyticsRepository) IncrementViews(ctx context.Context, surveyID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE survey_analytics
		 SET views = views + 1,
		     completion_rate = CASE WHEN views + 1 > 0 THEN CAST(completions AS REAL) / (views + 1) ELSE 0 END,
		     updated_at = ?
		 WHERE survey_id = ?`,
		formatTime(time.Now()), surveyID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// ApplyCompletion atomically counts one finished submission and its
// demographic bucket.
func (r *AnalyticsRepository) ApplyCompletion(ctx context.Context, surveyID, customerType string) error {
	newInc, returningInc := 0, 0
	switch customerType {
	case models.CustomerNew:
		newInc = 1
	case models.CustomerReturning:
		returningInc = 1
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE survey_analytics
		 SET completions = completions + 1,
		     completion_rate = CASE WHEN views > 0 THEN CAST(completions + 1 AS REAL) / views ELSE 0 END,
		     demographics = json_set(demographics,
		         '$.newCustomers', COALESCE(json_extract(demographics, '$.newCustomers'), 0) + ?,
		         '$.returningCustomers', COALESCE(json_extract(demographics, '$.returningCustomers'), 0) + ?),
		     updated_at = ?
		 WHERE survey_id = ?`,
		newInc, returningInc, formatTime(time.Now()), surveyID)
	if err != nil {
		return fmt.Errorf("failed to apply completion: %w", err)
	}
	return nil
}

// ReplaceComputed overwrites the scan-derived fields of the rollup: averages,
// per-question analytics, and average cart value. Counter columns are left to
// the atomic paths unless replaceCounters is set (full recompute).
func (r *AnalyticsRepository) ReplaceComputed(ctx context.Context, a *models.SurveyAnalytics, replaceCounters bool) error {
	questions, err := json.Marshal(a.QuestionAnalytics)
	if err != nil {
		return fmt.Errorf("failed to encode question analytics: %w", err)
	}
	demographics, err := json.Marshal(a.Demographics)
	if err != nil {
		return fmt.Errorf("failed to encode demographics: %w", err)
	}
	now := formatTime(time.Now())

	if replaceCounters {
		_, err = r.db.ExecContext(ctx,
			`UPDATE survey_analytics
			 SET completions = ?, average_time_spent = ?, completion_rate = ?,
			     question_analytics = ?, demographics = ?, updated_at = ?
			 WHERE survey_id = ?`,
			a.Completions, a.AverageTimeSpent, a.CompletionRate,
			string(questions), string(demographics), now, a.SurveyID)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE survey_analytics
			 SET average_time_spent = ?, question_analytics = ?, demographics = ?, updated_at = ?
			 WHERE survey_id = ?`,
			a.AverageTimeSpent, string(questions), string(demographics), now, a.SurveyID)
	}
	if err != nil {
		return fmt.Errorf("failed to replace computed analytics: %w", err)
	}
	return nil
}
