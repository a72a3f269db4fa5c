package list

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abastio/abasto/internal/cart"
	"github.com/abastio/abasto/internal/catalog"
)

var (
	ErrEmptyName     = errors.New("list name is required")
	ErrEmptyList     = errors.New("list has no items")
	ErrItemNotFound  = errors.New("list item not found")
	ErrBadQuantity   = errors.New("quantity must be positive")
	ErrEmptyItemName = errors.New("item name is required")
	ErrFieldReadOnly = errors.New("unit and price follow the published offer")
)

// ItemPatch is a list item edit. Unit and price are read-only copies of the
// provider's published offer; a patch carrying either is rejected, never
// silently dropped.
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

func (s *Service) Create(ctx context.Context, ownerID, name string, category int) (*List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !catalog.ValidCategory(category) {
		return nil, catalog.ErrBadCategory
	}

	l := &List{
		ID:       "list-" + uuid.NewString(),
		OwnerID:  ownerID,
		Name:     name,
		Category: category,
		Items:    []Item{},
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	s.logger.Infow("list created", "list_id", l.ID, "name", l.Name)
	return l, nil
}

func (s *Service) Get(ctx context.Context, id string) (*List, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]List, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Rename updates the list's name and category.
func (s *Service) Rename(ctx context.Context, listID, name string, category int) (*List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if !catalog.ValidCategory(category) {
		return nil, catalog.ErrBadCategory
	}
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	l.Name = name
	l.Category = category
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return l, nil
}

// AddProduct copies a search hit into the list with quantity 1, keeping the
// quality, unit and price of the published catalog entry.
func (s *Service) AddProduct(ctx context.Context, listID string, p catalog.Product) (*List, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	l.Items = append(l.Items, Item{
		ID:        "item-" + uuid.NewString(),
		CatalogID: p.CatalogID,
		Name:      p.Name,
		Quality:   p.Quality,
		Quantity:  decimal.NewFromInt(1),
		Unit:      p.Unit,
		Price:     p.Price,
	})
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	return l, nil
}

// UpdateItem edits a list item by id. Only name, quality and quantity may
// change.
func (s *Service) UpdateItem(ctx context.Context, listID, itemID string, patch ItemPatch) (*List, error) {
	if patch.Unit != nil || patch.Price != nil {
		return nil, ErrFieldReadOnly
	}

	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	it := &l.Items[idx]
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

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return l, nil
}

func (s *Service) RemoveItem(ctx context.Context, listID, itemID string) (*List, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			if err := s.repo.Update(ctx, l); err != nil {
				return nil, fmt.Errorf("remove item: %w", err)
			}
			return l, nil
		}
	}
	return nil, ErrItemNotFound
}

// TransferToCart copies every item of the list into the cart, each under a
// fresh id. The list itself is left untouched. An empty list is an error the
// shopper sees.
func (s *Service) TransferToCart(ctx context.Context, listID string, c *cart.Cart) error {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if len(l.Items) == 0 {
		return ErrEmptyList
	}

	for _, it := range l.Items {
		c.AddItem(cart.Item{
			ID:       uuid.NewString(),
			Name:     it.Name,
			Quality:  it.Quality,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			Price:    it.Price,
		})
	}
	s.logger.Infow("list transferred to cart", "list_id", listID, "items", len(l.Items))
	return nil
}
