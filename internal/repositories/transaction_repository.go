package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"construction_inventory_backend/internal/models"
)

// TransactionRepository defines the ledger operations. The ledger is append-only:
// rows disappear only through the ON DELETE CASCADE of their material.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, executor SQLExecutor, tx *models.MaterialTransaction) error
	GetTransactionByID(ctx context.Context, id int64) (*models.MaterialTransaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter, page, pageSize int) ([]models.MaterialTransaction, int, error)
	ListRecent(ctx context.Context, materialID *int64, limit int) ([]models.MaterialTransaction, error)
	CountForMaterial(ctx context.Context, executor SQLExecutor, materialID int64) (int, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `SELECT
	    t.id, t.material_id, t.transaction_type, t.quantity, t.unit_price,
	    t.created_at, t.reference, t.notes, t.created_by,
	    m.name, u.abbreviation`

const transactionFrom = `
	  FROM material_transactions t
	  JOIN construction_materials m ON t.material_id = m.id
	  JOIN units_of_measure u ON m.unit_of_measure_id = u.id`

func scanTransaction(s scanner, extra ...interface{}) (models.MaterialTransaction, error) {
	var t models.MaterialTransaction
	var createdAt sql.NullTime
	var createdBy sql.NullInt64
	var materialName, unitAbbr string

	dest := []interface{}{
		&t.ID, &t.MaterialID, &t.TransactionType, &t.Quantity, &t.UnitPrice,
		&createdAt, &t.Reference, &t.Notes, &createdBy,
		&materialName, &unitAbbr,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return t, err
	}
	if createdAt.Valid {
		t.CreatedAt = &createdAt.Time
	}
	if createdBy.Valid {
		t.CreatedBy = &createdBy.Int64
	}
	t.Material = &models.ConstructionMaterial{
		ID:            t.MaterialID,
		Name:          materialName,
		UnitOfMeasure: &models.UnitOfMeasure{Abbreviation: unitAbbr},
	}
	return t, nil
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, executor SQLExecutor, tx *models.MaterialTransaction) error {
	query := `INSERT INTO material_transactions
	          (material_id, transaction_type, quantity, unit_price, created_at, reference, notes, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	var createdAt sql.NullTime
	if tx.CreatedAt != nil {
		createdAt = sql.NullTime{Time: *tx.CreatedAt, Valid: true}
	}

	err := executor.QueryRowContext(ctx, query,
		tx.MaterialID, string(tx.TransactionType), tx.Quantity, tx.UnitPrice,
		createdAt, tx.Reference, tx.Notes, nullableID(tx.CreatedBy),
	).Scan(&tx.ID)
	return classify(err, "creating material transaction")
}

func (r *transactionRepository) GetTransactionByID(ctx context.Context, id int64) (*models.MaterialTransaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+transactionFrom+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, classify(err, "getting material transaction")
	}
	return &t, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter models.TransactionFilter, page, pageSize int) ([]models.MaterialTransaction, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.MaterialID != nil {
		conditions = append(conditions, fmt.Sprintf("t.material_id = $%d", argCount))
		args = append(args, *filter.MaterialID)
		argCount++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("t.transaction_type = $%d", argCount))
		args = append(args, string(*filter.Type))
		argCount++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("(m.name ILIKE $%d OR t.reference ILIKE $%d OR t.notes ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, likePattern(s))
		argCount++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	filterArgs := len(args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(transactionSelect)
	queryBuilder.WriteString(", COUNT(*) OVER() AS total_count")
	queryBuilder.WriteString(transactionFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY t.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, classify(err, "listing material transactions")
	}
	defer rows.Close()

	transactions := []models.MaterialTransaction{}
	totalCount := 0
	for rows.Next() {
		t, err := scanTransaction(rows, &totalCount)
		if err != nil {
			return nil, 0, classify(err, "scanning material transaction")
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err, "iterating material transactions")
	}
	if len(transactions) == 0 && page > 1 {
		// Past the last page the window count is unavailable; ask directly.
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+transactionFrom+where, args[:filterArgs]...).Scan(&totalCount); err != nil {
			return nil, 0, classify(err, "counting material transactions")
		}
	}
	return transactions, totalCount, nil
}

// ListRecent returns the newest transactions, optionally for one material.
func (r *transactionRepository) ListRecent(ctx context.Context, materialID *int64, limit int) ([]models.MaterialTransaction, error) {
	query := transactionSelect + transactionFrom
	var args []interface{}
	if materialID != nil {
		query += ` WHERE t.material_id = $1 ORDER BY t.id DESC LIMIT $2`
		args = append(args, *materialID, limit)
	} else {
		query += ` ORDER BY t.id DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "listing recent transactions")
	}
	defer rows.Close()

	transactions := []models.MaterialTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, classify(err, "scanning material transaction")
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterating recent transactions")
	}
	return transactions, nil
}

func (r *transactionRepository) CountForMaterial(ctx context.Context, executor SQLExecutor, materialID int64) (int, error) {
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM material_transactions WHERE material_id = $1`, materialID).Scan(&count)
	if err != nil {
		return 0, classify(err, "counting material transactions")
	}
	return count, nil
}
