package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/compra-app/compra-go/models"
)

// StoreRepository persists merchant Store records. Stores are created by the
// OAuth callback flow; the survey core only reads them.
type StoreRepository struct {
	db *sql.DB
}

func (r *StoreRepository) Insert(ctx context.Context, s *models.Store) error {
	settings, err := json.Marshal(s.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode store settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO stores (id, shop_domain, access_token, email, settings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.ShopDomain, s.AccessToken, s.Email, string(settings), formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert store: %w", err)
	}
	return nil
}

// FindByID returns the store, or nil when it does not exist.
func (r *StoreRepository) FindByID(ctx context.Context, id string) (*models.Store, error) {
	return r.findOne(ctx, `SELECT id, shop_domain, access_token, email, settings, created_at
		FROM stores WHERE id = ?`, id)
}

// FindByDomain returns the store registered for a shop domain, or nil.
func (r *StoreRepository) FindByDomain(ctx context.Context, domain string) (*models.Store, error) {
	return r.findOne(ctx, `SELECT id, shop_domain, access_token, email, settings, created_at
		FROM stores WHERE shop_domain = ?`, domain)
}

// FindAll returns every registered store, used by the digest loop.
func (r *StoreRepository) FindAll(ctx context.Context) ([]*models.Store, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, shop_domain, access_token, email, settings, created_at FROM stores`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) findOne(ctx context.Context, query string, arg any) (*models.Store, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	s, err := scanStore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (*models.Store, error) {
	var s models.Store
	var settings, createdAt string
	if err := row.Scan(&s.ID, &s.ShopDomain, &s.AccessToken, &s.Email, &settings, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan store row: %w", err)
	}
	if err := json.Unmarshal([]byte(settings), &s.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode store settings: %w", err)
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}
