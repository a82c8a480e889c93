package model

import "time"

// ISORequest : заявка покупателя "in search of" на доске запросов
type ISORequest struct {
	UUID        string     `db:"uuid" json:"uuid"`
	BuyerUUID   string     `db:"buyer_uuid" json:"buyer_uuid"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	Region      string     `db:"region" json:"region"`
	BudgetCents int64      `db:"budget_cents" json:"budget_cents"`
	Quantity    int        `db:"quantity" json:"quantity"`
	IsOpen      bool       `db:"is_open" json:"is_open"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// ISOMatch : товар с посчитанной близостью к заявке
type ISOMatch struct {
	Product *Product
	Score   float64
}
