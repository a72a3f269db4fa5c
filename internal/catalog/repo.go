package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("catalog not found")

type Repository interface {
	Create(ctx context.Context, c *Catalog) error
	GetByID(ctx context.Context, id string) (*Catalog, error)
	List(ctx context.Context) ([]Catalog, error)
	ListPublished(ctx context.Context) ([]Catalog, error)
	Update(ctx context.Context, c *Catalog) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, c *Catalog) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO catalogs (id, owner_id, name, category, published, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, c.ID, c.OwnerID, c.Name, c.Category, c.Published)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Catalog
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, name, category, published
		FROM catalogs WHERE id=$1
	`, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.Published)
	if err != nil {
		return nil, ErrNotFound
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Catalog, error) {
	return r.list(ctx, false)
}

func (r *PGRepo) ListPublished(ctx context.Context) ([]Catalog, error) {
	return r.list(ctx, true)
}

func (r *PGRepo) list(ctx context.Context, publishedOnly bool) ([]Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, category, published
		FROM catalogs
		WHERE (NOT $1 OR published)
		ORDER BY created_at
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Catalog
	for rows.Next() {
		var c Catalog
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Category, &c.Published); err != nil {
			return nil, err
		}
		out = append(out, c)
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

func (r *PGRepo) items(ctx context.Context, catalogID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, quality, quantity::text, unit, price::text
		FROM catalog_items WHERE catalog_id=$1 ORDER BY position
	`, catalogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.Quality, &it.Quantity, &it.Unit, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update replaces the catalog row and its full item sequence in one
// transaction, mirroring the PUT-replaces-everything API contract.
func (r *PGRepo) Update(ctx context.Context, c *Catalog) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE catalogs
		SET name = $2, category = $3, published = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Category, c.Published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_items WHERE catalog_id=$1`, c.ID); err != nil {
		return err
	}
	for pos, it := range c.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO catalog_items (catalog_id, position, name, quality, quantity, unit, price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, c.ID, pos, it.Name, it.Quality, it.Quantity, it.Unit, it.Price); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
