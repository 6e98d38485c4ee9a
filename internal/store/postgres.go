package store

import (
	"context"
	"database/sql"
	"fmt"

	"billed/internal/model"
)

// BillDB implements BillStore on Postgres.
type BillDB struct {
	db *sql.DB
}

func NewBillDB(db *sql.DB) *BillDB {
	return &BillDB{db: db}
}

const billColumns = `id, email, type, name, date, amount, pct, commentary, status, file_url, file_name, file_key, created_at`

func (s *BillDB) ListBills(ctx context.Context, email string) ([]model.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return bills, nil
}

func (s *BillDB) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)

	b, err := scanBill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (s *BillDB) CreateBill(ctx context.Context, bill model.Bill) (*model.Bill, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO bills (email, type, name, date, amount, pct, commentary, status, file_url, file_name, file_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+billColumns+`
	`, bill.Email, bill.Type, bill.Name, bill.Date, bill.Amount, bill.Pct, bill.Commentary,
		bill.Status, bill.FileURL, bill.FileName, bill.FileKey)

	b, err := scanBill(row)
	if err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}
	return b, nil
}

func (s *BillDB) UpdateBill(ctx context.Context, id string, bill model.Bill) (*model.Bill, error) {
	// scoped to the owner: a bill id coming from a client must never reach
	// another user's row
	row := s.db.QueryRowContext(ctx, `
		UPDATE bills
		SET type = $1, name = $2, date = $3, amount = $4, pct = $5, commentary = $6,
		    status = $7, file_url = $8, file_name = $9, file_key = $10
		WHERE id = $11 AND email = $12
		RETURNING `+billColumns+`
	`, bill.Type, bill.Name, bill.Date, bill.Amount, bill.Pct, bill.Commentary,
		bill.Status, bill.FileURL, bill.FileName, bill.FileKey, id, bill.Email)

	b, err := scanBill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return b, nil
}

func (s *BillDB) UpdateBillStatus(ctx context.Context, id, status, commentary string) (*model.Bill, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE bills
		SET status = $1, commentary = CASE WHEN $2 <> '' THEN $2 ELSE commentary END
		WHERE id = $3
		RETURNING `+billColumns+`
	`, status, commentary, id)

	b, err := scanBill(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("update bill status: %w", err)
	}
	return b, nil
}

func (s *BillDB) BillSummary(ctx context.Context, email string) (*model.BillSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM bills
		WHERE email = $1
		GROUP BY status
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	var summary model.BillSummary
	for rows.Next() {
		var status string
		var total model.StatusTotal
		if err := rows.Scan(&status, &total.Count, &total.Amount); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		switch status {
		case model.StatusPending:
			summary.Pending = total
		case model.StatusAccepted:
			summary.Accepted = total
		case model.StatusRefused:
			summary.Refused = total
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return &summary, nil
}

func (s *BillDB) ReceiptAttached(ctx context.Context, key string) (bool, error) {
	var attached bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bills WHERE file_key = $1)`, key,
	).Scan(&attached)
	if err != nil {
		return false, fmt.Errorf("check receipt: %w", err)
	}
	return attached, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*model.Bill, error) {
	var b model.Bill
	var pct sql.NullInt64
	err := row.Scan(&b.ID, &b.Email, &b.Type, &b.Name, &b.Date, &b.Amount, &pct,
		&b.Commentary, &b.Status, &b.FileURL, &b.FileName, &b.FileKey, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if pct.Valid {
		b.Pct = int(pct.Int64)
	}
	return &b, nil
}
