package model

import "time"

type Product struct {
	UUID        string     `db:"uuid" json:"uuid"`
	SellerUUID  string     `db:"seller_uuid" json:"seller_uuid"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	Region      string     `db:"region" json:"region"`
	PriceCents  int64      `db:"price_cents" json:"price_cents"`
	MinOrderQty int        `db:"min_order_qty" json:"min_order_qty"`
	ImageKey    string     `db:"image_key" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type GetProductResult struct {
	Product  *Product
	ImageURL string // pre-signed GET URL, если у товара есть изображение
}
