// Package promotion manages provider discount campaigns. Active is a manual
// switch: the date range is informative and never evaluated automatically.
package promotion

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// AllProducts is the sentinel meaning a promotion applies to the whole
// catalog rather than named products.
const AllProducts = "all products"

var (
	ErrEmptyName        = errors.New("promotion name is required")
	ErrEmptyCode        = errors.New("promotion code is required")
	ErrBadDiscountType  = errors.New("discount type must be percentage or fixed")
	ErrBadDiscountValue = errors.New("discount value must be positive")
	ErrPercentTooHigh   = errors.New("percentage discount cannot exceed 100")
)

type Promotion struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	DiscountType  string   `json:"discountType"`
	DiscountValue string   `json:"discountValue"` // NUMERIC -> string
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	MinOrderValue string   `json:"minOrderValue,omitempty"`
	MaxDiscount   string   `json:"maxDiscount,omitempty"`
	Active        bool     `json:"active"`
	Products      []string `json:"products"`
	Code          string   `json:"code"`
}

// Validate checks the fields a provider must get right before the promotion
// is stored.
func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Code) == "" {
		return ErrEmptyCode
	}
	if p.DiscountType != DiscountPercentage && p.DiscountType != DiscountFixed {
		return ErrBadDiscountType
	}
	v, err := decimal.NewFromString(p.DiscountValue)
	if err != nil || v.Sign() <= 0 {
		return ErrBadDiscountValue
	}
	if p.DiscountType == DiscountPercentage && v.GreaterThan(decimal.NewFromInt(100)) {
		return ErrPercentTooHigh
	}
	if len(p.Products) == 0 {
		p.Products = []string{AllProducts}
	}
	return nil
}
