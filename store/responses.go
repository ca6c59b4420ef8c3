package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/compra-app/compra-go/models"
)

// ResponseRepository persists shopper submissions. Responses are immutable
// once inserted; there is no update path.
type ResponseRepository struct {
	db *sql.DB
}

func (r *ResponseRepository) Insert(ctx context.Context, resp *models.SurveyResponse) error {
	answers, err := json.Marshal(resp.Responses)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	metadata, err := json.Marshal(resp.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO survey_responses
			(id, survey_id, responses, customer_email, customer_type, total_time_spent, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.ID, resp.SurveyID, string(answers), resp.CustomerEmail, resp.CustomerType,
		resp.TotalTimeSpent, string(metadata), formatTime(resp.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

// FindBySurvey returns a survey's full response history, oldest first.
func (r *ResponseRepository) FindBySurvey(ctx context.Context, surveyID string) ([]*models.SurveyResponse, error) {
	return r.FindBySurveyBetween(ctx, surveyID, nil, nil)
}

// FindBySurveyBetween returns responses inside an optional created-at window.
func (r *ResponseRepository) FindBySurveyBetween(ctx context.Context, surveyID string, start, end *time.Time) ([]*models.SurveyResponse, error) {
	query := `SELECT id, survey_id, responses, customer_email, customer_type, total_time_spent, metadata, created_at
		FROM survey_responses WHERE survey_id = ?`
	args := []any{surveyID}
	var conds []string
	if start != nil {
		conds = append(conds, `created_at >= ?`)
		args = append(args, formatTime(*start))
	}
	if end != nil {
		conds = append(conds, `created_at <= ?`)
		args = append(args, formatTime(*end))
	}
	if len(conds) > 0 {
		query += ` AND ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.SurveyResponse
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// CountBySurvey returns the number of responses without loading them.
func (r *ResponseRepository) CountBySurvey(ctx context.Context, surveyID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM survey_responses WHERE survey_id = ?`, surveyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return n, nil
}

func scanResponse(rows *sql.Rows) (*models.SurveyResponse, error) {
	var resp models.SurveyResponse
	var answers, metadata, createdAt string
	err := rows.Scan(&resp.ID, &resp.SurveyID, &answers, &resp.CustomerEmail,
		&resp.CustomerType, &resp.TotalTimeSpent, &metadata, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan response row: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &resp.Responses); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &resp.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	resp.CreatedAt = parseTime(createdAt)
	return &resp, nil
}
