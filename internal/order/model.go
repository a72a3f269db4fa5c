package order

import "github.com/shopspring/decimal"

// Order is an immutable snapshot taken at checkout. Items are copied from
// the cart and never linked back to it; only Status ever changes afterward.
type Order struct {
	ID              string `json:"id"`
	Restaurant      string `json:"restaurant"`
	Location        string `json:"location"`
	Items           []Item `json:"items"`
	Total           string `json:"total"` // NUMERIC -> string
	Date            string `json:"date"`
	Time            string `json:"time"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

type Item struct {
	Name     string          `json:"name"`
	Quality  string          `json:"quality"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

// Draft is the payload accepted at creation. The server assigns the id and
// forces the initial status.
type Draft struct {
	Restaurant      string `json:"restaurant"`
	Location        string `json:"location"`
	Items           []Item `json:"items"`
	Total           string `json:"total"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

func copyItems(items []Item) []Item {
	return append([]Item(nil), items...)
}
