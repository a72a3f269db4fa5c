package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("promotion not found")

// Repository write operations are owner-scoped: a promotion id from another
// provider behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	List(ctx context.Context, ownerID string) ([]Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	SetActive(ctx context.Context, id, ownerID string, active bool) error
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO promotions (id, owner_id, name, description, discount_type, discount_value,
		                        start_date, end_date, min_order_value, max_discount,
		                        active, products, code, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,'')::numeric,NULLIF($10,'')::numeric,$11,$12,$13,NOW())
	`, p.ID, p.OwnerID, p.Name, p.Description, p.DiscountType, p.DiscountValue,
		p.StartDate, p.EndDate, p.MinOrderValue, p.MaxDiscount,
		p.Active, p.Products, p.Code)
	return err
}

func (r *PGRepo) List(ctx context.Context, ownerID string) ([]Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, description, discount_type, discount_value::text,
		       start_date, end_date, COALESCE(min_order_value::text,''), COALESCE(max_discount::text,''),
		       active, products, code
		FROM promotions WHERE owner_id=$1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Promotion
	for rows.Next() {
		var p Promotion
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.DiscountType, &p.DiscountValue,
			&p.StartDate, &p.EndDate, &p.MinOrderValue, &p.MaxDiscount,
			&p.Active, &p.Products, &p.Code); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE promotions
		SET name = $2, description = $3, discount_type = $4, discount_value = $5,
		    start_date = $6, end_date = $7,
		    min_order_value = NULLIF($8,'')::numeric, max_discount = NULLIF($9,'')::numeric,
		    active = $10, products = $11, code = $12
		WHERE id = $1 AND owner_id = $13
	`, p.ID, p.Name, p.Description, p.DiscountType, p.DiscountValue,
		p.StartDate, p.EndDate, p.MinOrderValue, p.MaxDiscount,
		p.Active, p.Products, p.Code, p.OwnerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetActive(ctx context.Context, id, ownerID string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE promotions SET active=$3 WHERE id=$1 AND owner_id=$2
	`, id, ownerID, active)
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
		DELETE FROM promotions WHERE id=$1 AND owner_id=$2
	`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
