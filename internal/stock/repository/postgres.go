package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/opsdash/inventory-service/internal/model"
	"github.com/opsdash/inventory-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetLedger(ctx context.Context, tenantID, sku string) (*model.StockLedger, error) {
	var ledger model.StockLedger
	query := `SELECT * FROM stock_ledgers WHERE tenant_id = $1 AND sku = $2`
	err := r.DB.GetContext(ctx, &ledger, query, tenantID, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ledger, nil
}

func (r *PGRepository) ListLedgers(ctx context.Context, tenantID string) ([]model.StockLedger, error) {
	var ledgers []model.StockLedger
	query := `SELECT * FROM stock_ledgers WHERE tenant_id = $1`
	err := r.DB.SelectContext(ctx, &ledgers, query, tenantID)
	return ledgers, err
}

const updateLedgerQuery = `
	UPDATE stock_ledgers
	SET inward_addition = :inward_addition,
	    deduction = :deduction,
	    auto_addition = :auto_addition,
	    auto_deduction = :auto_deduction,
	    blocked_stock = :blocked_stock,
	    updated_at = :updated_at
	WHERE tenant_id = :tenant_id AND sku = :sku
`

func (r *PGRepository) SaveLedgerWithAdjustment(ctx context.Context, ledger *model.StockLedger, adj *model.StockAdjustment) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, updateLedgerQuery, ledger)
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("ledger missing for sku %s", ledger.SKU)
	}

	insertQuery := `
		INSERT INTO stock_adjustments (
			id, tenant_id, sku, type, amount, counter_after,
			physical_before, physical_after, actor, note, created_at
		)
		VALUES (
			:id, :tenant_id, :sku, :type, :amount, :counter_after,
			:physical_before, :physical_after, :actor, :note, :created_at
		)
	`
	_, err = tx.NamedExecContext(ctx, insertQuery, adj)
	if err != nil {
		return fmt.Errorf("failed to append adjustment record: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) SaveLedger(ctx context.Context, ledger *model.StockLedger) error {
	res, err := r.DB.NamedExecContext(ctx, updateLedgerQuery, ledger)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("ledger missing for sku %s", ledger.SKU)
	}
	return nil
}

func (r *PGRepository) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	var items []model.StockAdjustment
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.TenantID != "" {
		conditions = append(conditions, "tenant_id = :tenant_id")
		args["tenant_id"] = f.TenantID
	}
	if f.SKU != "" {
		conditions = append(conditions, "sku = :sku")
		args["sku"] = f.SKU
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = string(f.Type)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stock_adjustments" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stock_adjustments" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
