package list

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("list not found")

type Repository interface {
	Create(ctx context.Context, l *List) error
	GetByID(ctx context.Context, id string) (*List, error)
	ListByOwner(ctx context.Context, ownerID string) ([]List, error)
	Update(ctx context.Context, l *List) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, l *List) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO lists (id, owner_id, name, category, created_at)
		VALUES ($1,$2,$3,$4,NOW())
	`, l.ID, l.OwnerID, l.Name, l.Category)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*List, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l List
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, name, category FROM lists WHERE id=$1
	`, id).Scan(&l.ID, &l.OwnerID, &l.Name, &l.Category)
	if err != nil {
		return nil, ErrNotFound
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &l, nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]List, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, category FROM lists
		WHERE owner_id=$1 ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []List
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Category); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PGRepo) items(ctx context.Context, listID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, catalog_id, name, quality, quantity::text, unit, price::text
		FROM list_items WHERE list_id=$1 ORDER BY position
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CatalogID, &it.Name, &it.Quality, &it.Quantity, &it.Unit, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update replaces the list row and its item sequence in one transaction.
func (r *PGRepo) Update(ctx context.Context, l *List) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE lists SET name = $2, category = $3 WHERE id = $1
	`, l.ID, l.Name, l.Category)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM list_items WHERE list_id=$1`, l.ID); err != nil {
		return err
	}
	for pos, it := range l.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO list_items (id, list_id, position, catalog_id, name, quality, quantity, unit, price)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, it.ID, l.ID, pos, it.CatalogID, it.Name, it.Quality, it.Quantity, it.Unit, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
