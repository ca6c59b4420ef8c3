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

// SurveyRepository persists Survey documents.
type SurveyRepository struct {
	db *sql.DB
}

const surveyColumns = `id, store_id, title, description, questions, active, priority, status,
	target_audience, display_rules, style, script_tag_id, created_at, updated_at`

func (r *SurveyRepository) Insert(ctx context.Context, s *models.Survey) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	audience, err := json.Marshal(s.TargetAudience)
	if err != nil {
		return fmt.Errorf("failed to encode target audience: %w", err)
	}
	rules, err := json.Marshal(s.DisplayRules)
	if err != nil {
		return fmt.Errorf("failed to encode display rules: %w", err)
	}
	style, err := json.Marshal(s.Style)
	if err != nil {
		return fmt.Errorf("failed to encode style: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO surveys (`+surveyColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StoreID, s.Title, s.Description, string(questions), boolToInt(s.Active),
		s.Priority, s.Status, string(audience), string(rules), string(style),
		s.ScriptTagID, formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert survey: %w", err)
	}
	return nil
}

// FindByID returns the survey, or nil when it does not exist.
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*models.Survey, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE id = ?`, id)
	s, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// FindByStore lists a store's surveys newest-first.
func (r *SurveyRepository) FindByStore(ctx context.Context, storeID string) ([]*models.Survey, error) {
	return r.findMany(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE store_id = ? ORDER BY created_at DESC`,
		storeID)
}

// FindDeliverable returns the store's surveys that may be shown at the given
// moment: status active, active flag set, and the display window containing
// now. Results are ordered by priority descending, then recency.
func (r *SurveyRepository) FindDeliverable(ctx context.Context, storeID string, now time.Time) ([]*models.Survey, error) {
	surveys, err := r.findMany(ctx,
		`SELECT `+surveyColumns+` FROM surveys
		 WHERE store_id = ? AND status = ? AND active = 1
		 ORDER BY priority DESC, created_at DESC`,
		storeID, models.StatusActive)
	if err != nil {
		return nil, err
	}
	return filterWindow(surveys, now), nil
}

// FindTopDeliverable returns the highest-priority deliverable survey across
// all stores, used by the legacy checkout fetch route.
func (r *SurveyRepository) FindTopDeliverable(ctx context.Context, now time.Time) (*models.Survey, error) {
	surveys, err := r.findMany(ctx,
		`SELECT `+surveyColumns+` FROM surveys
		 WHERE status = ? AND active = 1
		 ORDER BY priority DESC, created_at DESC`,
		models.StatusActive)
	if err != nil {
		return nil, err
	}
	eligible := filterWindow(surveys, now)
	if len(eligible) == 0 {
		return nil, nil
	}
	return eligible[0], nil
}

// UpdateStatus transitions a survey's lifecycle status. Returns the updated
// survey, or nil when the survey does not exist.
func (r *SurveyRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Survey, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE surveys SET status = ?, active = ?, updated_at = ? WHERE id = ?`,
		status, boolToInt(status == models.StatusActive), formatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update survey status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// SetScriptTag records the platform script-tag ID after publishing and flips
// the survey active.
func (r *SurveyRepository) SetScriptTag(ctx context.Context, id, scriptTagID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE surveys SET script_tag_id = ?, active = 1, updated_at = ? WHERE id = ?`,
		scriptTagID, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to set script tag: %w", err)
	}
	return nil
}

// Delete removes the survey and cascades deletion of its responses and
// rollup in one transaction. Returns false when the survey did not exist.
func (r *SurveyRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete survey: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM survey_responses WHERE survey_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete survey responses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM survey_analytics WHERE survey_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete survey analytics: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

func (r *SurveyRepository) findMany(ctx context.Context, query string, args ...any) ([]*models.Survey, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	var surveys []*models.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

func scanSurvey(row rowScanner) (*models.Survey, error) {
	var s models.Survey
	var questions, audience, rules, style, createdAt, updatedAt string
	var active int
	err := row.Scan(&s.ID, &s.StoreID, &s.Title, &s.Description, &questions, &active,
		&s.Priority, &s.Status, &audience, &rules, &style, &s.ScriptTagID,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan survey row: %w", err)
	}

	if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(audience), &s.TargetAudience); err != nil {
		return nil, fmt.Errorf("failed to decode target audience: %w", err)
	}
	if err := json.Unmarshal([]byte(rules), &s.DisplayRules); err != nil {
		return nil, fmt.Errorf("failed to decode display rules: %w", err)
	}
	if err := json.Unmarshal([]byte(style), &s.Style); err != nil {
		return nil, fmt.Errorf("failed to decode style: %w", err)
	}
	s.Active = active != 0
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// filterWindow drops surveys whose display window excludes now. The window
// bounds live inside the display_rules JSON, so this filter runs in process.
func filterWindow(surveys []*models.Survey, now time.Time) []*models.Survey {
	eligible := surveys[:0]
	for _, s := range surveys {
		if s.DisplayRules.WindowContains(now) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
