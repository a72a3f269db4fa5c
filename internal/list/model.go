// Package list provides restaurant-owned shopping lists, built by searching
// the published catalogs and consumed by transferring the items into a cart.
package list

import "github.com/shopspring/decimal"

type List struct {
	ID       string `json:"id"`
	OwnerID  string `json:"ownerId"`
	Name     string `json:"name"`
	Category int    `json:"category"`
	Items    []Item `json:"items"`
}

// Item is a list entry copied from a published catalog. CatalogID records
// where it came from; unit and price are frozen from that offer.
type Item struct {
	ID        string          `json:"id"`
	CatalogID string          `json:"catalogId"`
	Name      string          `json:"name"`
	Quality   string          `json:"quality"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
}
