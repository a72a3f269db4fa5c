package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyName        = errors.New("catalog name is required")
	ErrEmptyItemName    = errors.New("item name is required")
	ErrBadCategory      = errors.New("unknown category")
	ErrBadUnit          = errors.New("unknown unit")
	ErrBadQuantity      = errors.New("quantity must be positive")
	ErrBadPrice         = errors.New("price must not be negative")
	ErrItemIndex        = errors.New("item index out of range")
	ErrNoItems          = errors.New("catalog has no items")
	ErrAlreadyPublished = errors.New("catalog is already published")
)

// searchLimit bounds the product dropdown on the restaurant side.
const searchLimit = 5

// Product is a search hit: a published catalog item together with its
// originating catalog.
type Product struct {
	CatalogID string          `json:"catalogId"`
	Category  int             `json:"category"`
	Name      string          `json:"name"`
	Quality   string          `json:"quality"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
}

// ItemPatch carries the fields of a positional item edit. Nil fields are
// left untouched.
type ItemPatch struct {
	Name     *string          `json:"name,omitempty"`
	Quality  *string          `json:"quality,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

type Service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.SugaredLogger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create makes a new draft catalog with no items.
func (s *Service) Create(ctx context.Context, ownerID, name string, category int) (*Catalog, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !ValidCategory(category) {
		return nil, ErrBadCategory
	}

	c := &Catalog{
		ID:       "catalog-" + uuid.NewString(),
		OwnerID:  ownerID,
		Name:     name,
		Category: category,
		Items:    []Item{},
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create catalog: %w", err)
	}
	s.logger.Infow("catalog created", "catalog_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Catalog, error) {
	return s.repo.GetByID(ctx, id)
}

// Rename updates the catalog's name and category. Items and the published
// flag are untouched.
func (s *Service) Rename(ctx context.Context, catalogID, name string, category int) (*Catalog, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !ValidCategory(category) {
		return nil, ErrBadCategory
	}

	c, err := s.repo.GetByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.Category = category
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("rename catalog: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Catalog, error) {
	return s.repo.List(ctx)
}

// AddItem appends a new line item with the defaults the provider then edits
// in place: empty quality, quantity 1, unit kg, price 0.
func (s *Service) AddItem(ctx context.Context, catalogID, name string) (*Catalog, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyItemName
	}

	c, err := s.repo.GetByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, Item{
		Name:     name,
		Quality:  "",
		Quantity: decimal.NewFromInt(1),
		Unit:     "kg",
		Price:    decimal.Zero,
	})
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	return c, nil
}

// UpdateItem edits the item at index. Quantity and price are validated
// strictly; the permissive free-text fields of the original forms are not
// reproduced here.
func (s *Service) UpdateItem(ctx context.Context, catalogID string, index int, patch ItemPatch) (*Catalog, error) {
	c, err := s.repo.GetByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, ErrItemIndex
	}

	it := &c.Items[index]
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, ErrEmptyItemName
		}
		it.Name = *patch.Name
	}
	if patch.Quality != nil {
		it.Quality = *patch.Quality
	}
	if patch.Quantity != nil {
		if patch.Quantity.Sign() <= 0 {
			return nil, ErrBadQuantity
		}
		it.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		if !ValidUnit(*patch.Unit) {
			return nil, ErrBadUnit
		}
		it.Unit = *patch.Unit
	}
	if patch.Price != nil {
		if patch.Price.Sign() < 0 {
			return nil, ErrBadPrice
		}
		it.Price = *patch.Price
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, catalogID string, index int) (*Catalog, error) {
	c, err := s.repo.GetByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, ErrItemIndex
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}
	return c, nil
}

// Publish makes the catalog visible to shoppers. It requires at least one
// item and cannot be undone.
func (s *Service) Publish(ctx context.Context, catalogID string) (*Catalog, error) {
	c, err := s.repo.GetByID(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrNoItems
	}
	if c.Published {
		return nil, ErrAlreadyPublished
	}
	c.Published = true
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("publish catalog: %w", err)
	}
	s.logger.Infow("catalog published", "catalog_id", c.ID)
	return c, nil
}

// SearchPublished filters the items of every published catalog by a
// case-insensitive substring match on the name, keeping catalog order, and
// returns at most the first five hits.
func (s *Service) SearchPublished(ctx context.Context, term string) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Product{}, nil
	}

	catalogs, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("search published: %w", err)
	}

	needle := strings.ToLower(term)
	out := []Product{}
	for _, c := range catalogs {
		for _, it := range c.Items {
			if !strings.Contains(strings.ToLower(it.Name), needle) {
				continue
			}
			out = append(out, Product{
				CatalogID: c.ID,
				Category:  c.Category,
				Name:      it.Name,
				Quality:   it.Quality,
				Unit:      it.Unit,
				Price:     it.Price,
			})
			if len(out) == searchLimit {
				return out, nil
			}
		}
	}
	return out, nil
}
