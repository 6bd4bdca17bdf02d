package store

import (
	"database/sql"
	"fmt"

	"github.com/kaushalkrsna1602/auraflow/internal/model"
)

// TransactionStore is the append-only audit log. Rows are never updated or
// deleted except by group cascade.
type TransactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*model.Transaction, error) {
	var t model.Transaction
	var toID sql.NullInt64

	err := scanner.Scan(&t.ID, &t.GroupID, &t.FromID, &toID, &t.Amount, &t.Reason, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if toID.Valid {
		t.ToID = &toID.Int64
	}
	return &t, nil
}

const transactionCols = `id, group_id, from_id, to_id, amount, reason, created_at`

// Create appends a transaction. A nil toID marks a redemption.
func (s *TransactionStore) Create(groupID, fromID int64, toID *int64, amount int, reason string) (*model.Transaction, error) {
	var to sql.NullInt64
	if toID != nil {
		to = sql.NullInt64{Int64: *toID, Valid: true}
	}

	var id int64
	err := withBusyRetry(func() error {
		result, err := s.db.Exec(
			`INSERT INTO transactions (group_id, from_id, to_id, amount, reason) VALUES (?, ?, ?, ?, ?)`,
			groupID, fromID, to, amount, reason,
		)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`SELECT `+transactionCols+` FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

// ListByGroup returns the group's transactions, newest first.
func (s *TransactionStore) ListByGroup(groupID int64, limit int) ([]model.Transaction, error) {
	rows, err := s.db.Query(
		`SELECT `+transactionCols+` FROM transactions WHERE group_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

// SumForUser returns the sum of amounts credited to (awards) or committed by
// (redemptions) the user in the group. Used for reconciliation against the
// live balance.
func (s *TransactionStore) SumForUser(groupID, userID int64) (int, error) {
	var sum sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE group_id = ? AND ((to_id = ?) OR (to_id IS NULL AND from_id = ?))`,
		groupID, userID, userID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return int(sum.Int64), nil
}
