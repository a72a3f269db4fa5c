// Package catalog provides provider-owned product catalogs: draft creation,
// line item editing and the one-way publish transition that makes a catalog
// visible to restaurant shoppers.
package catalog

import "github.com/shopspring/decimal"

type Catalog struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	Category  int    `json:"category"`
	Items     []Item `json:"items"`
	Published bool   `json:"published"`
}

// Item identity inside a catalog is positional; there is no per-item id.
type Item struct {
	Name     string          `json:"name"`
	Quality  string          `json:"quality"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

// Category is an entry of the fixed category table.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var Categories = []Category{
	{1, "Carnes"},
	{2, "Frutas"},
	{3, "Verduras"},
	{4, "Lácteos"},
	{5, "Granos"},
	{6, "Congelados"},
	{7, "Enlatados"},
	{8, "Bebidas"},
	{9, "Limpieza"},
}

func ValidCategory(id int) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

var units = map[string]bool{"kg": true, "g": true, "l": true, "ml": true, "u": true}

func ValidUnit(u string) bool { return units[u] }
