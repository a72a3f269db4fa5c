package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("invoice not found")

// Write operations are owner-scoped: an invoice id belonging to another
// provider behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, search string) ([]Invoice, error)
	SetStatus(ctx context.Context, id, ownerID, status string) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, inv *Invoice) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (id, owner_id, order_id, invoice_number, issue_date, due_date,
		                      amount, status, notes, file_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
	`, inv.ID, inv.OwnerID, inv.OrderID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		inv.Amount, inv.Status, inv.Notes, inv.File)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var inv Invoice
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, order_id, invoice_number, issue_date, due_date,
		       amount::text, status, notes, file_name
		FROM invoices WHERE id=$1
	`, id).Scan(&inv.ID, &inv.OwnerID, &inv.OrderID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate,
		&inv.Amount, &inv.Status, &inv.Notes, &inv.File)
	if err != nil {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (r *PGRepo) List(ctx context.Context, search string) ([]Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	search = strings.TrimSpace(search)

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, order_id, invoice_number, issue_date, due_date,
		       amount::text, status, notes, file_name
		FROM invoices
		WHERE ($1 = '' OR invoice_number ILIKE '%'||$1||'%' OR order_id ILIKE '%'||$1||'%')
		ORDER BY created_at DESC
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.OrderID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate,
			&inv.Amount, &inv.Status, &inv.Notes, &inv.File); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetStatus(ctx context.Context, id, ownerID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE invoices SET status=$3 WHERE id=$1 AND owner_id=$2
	`, id, ownerID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM invoices WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
