package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/opsdash/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (id, tenant_id, name, description, sort_order, is_active, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :description, :sort_order, :is_active, :created_at, :updated_at)
	`
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Category, error) {
	var c model.Category
	query := `SELECT * FROM categories WHERE tenant_id = $1 AND id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &c, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindByName(ctx context.Context, tenantID, name string) (*model.Category, error) {
	var c model.Category
	query := `SELECT * FROM categories WHERE tenant_id = $1 AND name = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &c, query, tenantID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT * FROM categories WHERE tenant_id = $1 ORDER BY sort_order, name`
	err := r.DB.SelectContext(ctx, &categories, query, tenantID)
	return categories, err
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = :name,
		    description = :description,
		    sort_order = :sort_order,
		    is_active = :is_active,
		    updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND id = :id
	`
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}
