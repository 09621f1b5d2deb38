package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithLedger(ctx context.Context, p *model.Product, ledger *model.StockLedger) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	productQuery := `
		INSERT INTO products (
			id, tenant_id, sku, name, category, weight_grams,
			price, description, variant_refs, created_at, updated_at
		)
		VALUES (
			:id, :tenant_id, :sku, :name, :category, :weight_grams,
			:price, :description, :variant_refs, :created_at, :updated_at
		)
	`
	if _, err := tx.NamedExecContext(ctx, productQuery, p); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	ledgerQuery := `
		INSERT INTO stock_ledgers (
			tenant_id, sku, opening_stock, inward_addition, deduction,
			auto_addition, auto_deduction, blocked_stock, updated_at
		)
		VALUES (
			:tenant_id, :sku, :opening_stock, :inward_addition, :deduction,
			:auto_addition, :auto_deduction, :blocked_stock, :updated_at
		)
	`
	if _, err := tx.NamedExecContext(ctx, ledgerQuery, ledger); err != nil {
		return fmt.Errorf("failed to insert ledger: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) FindBySKU(ctx context.Context, tenantID, sku string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE tenant_id = $1 AND sku = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, tenantID, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListByTenant(ctx context.Context, tenantID string) ([]model.Product, error) {
	var products []model.Product
	query := `SELECT * FROM products WHERE tenant_id = $1 ORDER BY created_at`
	err := r.DB.SelectContext(ctx, &products, query, tenantID)
	return products, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &products, args)
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = :name,
		    category = :category,
		    weight_grams = :weight_grams,
		    price = :price,
		    description = :description,
		    variant_refs = :variant_refs,
		    updated_at = :updated_at
		WHERE tenant_id = :tenant_id AND sku = :sku
	`
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, sku string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_ledgers WHERE tenant_id = $1 AND sku = $2`, tenantID, sku); err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE tenant_id = $1 AND sku = $2`, tenantID, sku); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, tenantID, sku string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE tenant_id = $1 AND sku = $2`
	err := r.DB.GetContext(ctx, &count, query, tenantID, sku)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
