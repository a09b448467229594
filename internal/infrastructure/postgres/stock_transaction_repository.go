package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const stockTxColumns = `id, item_id, owner_id, type, quantity, person_name, notes, created_at, updated_at`

// StockTransactionRepo implementación del libro sobre PostgreSQL (usable con pool o tx).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create registra una transacción.
func (r *StockTransactionRepo) Create(ctx context.Context, tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + stockTxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ItemID, tx.OwnerID, tx.Type, tx.Quantity, tx.PersonName, tx.Notes,
		tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción; (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + stockTxColumns + ` FROM stock_transactions WHERE id = $1`
	tx, err := scanStockTx(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return tx, nil
}

// ListByItem devuelve el libro del artículo, más recientes primero.
func (r *StockTransactionRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockTransaction, error) {
	if !validID(itemID) {
		return nil, nil
	}
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE item_id = $1
		ORDER BY created_at DESC, seq DESC`
	return r.list(ctx, query, itemID)
}

// ListByOwner historial del usuario, más recientes primero. limit <= 0 = sin límite.
func (r *StockTransactionRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT ` + stockTxColumns + `
		FROM stock_transactions WHERE owner_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, ownerID, nullLimit(limit), offset)
}

// CountByOwner total de transacciones del usuario, para paginar.
func (r *StockTransactionRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_transactions WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return n, nil
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		tx, err := scanStockTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// Update actualiza cantidad, persona y notas. El tipo y el artículo son inmutables.
func (r *StockTransactionRepo) Update(ctx context.Context, tx *entity.StockTransaction) error {
	query := `
		UPDATE stock_transactions SET quantity = $2, person_name = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, tx.ID, tx.Quantity, tx.PersonName, tx.Notes, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una transacción.
func (r *StockTransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByItem elimina todo el libro de un artículo.
func (r *StockTransactionRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_transactions WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete stock transactions by item: %w", err)
	}
	return nil
}

func scanStockTx(row pgx.Row) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	if err := row.Scan(
		&t.ID, &t.ItemID, &t.OwnerID, &t.Type, &t.Quantity, &t.PersonName, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
