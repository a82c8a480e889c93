package model

import "time"

// Share : курируемая продавцом подборка товаров, доступная по публичному токену
type Share struct {
	UUID         string     `db:"uuid" json:"uuid"`
	OwnerUUID    string     `db:"owner_uuid" json:"owner_uuid"`
	Title        string     `db:"title" json:"title"`
	AccessToken  string     `db:"access_token" json:"access_token"`
	ProductUUIDs []string   `db:"-" json:"product_uuids"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type GetShareResult struct {
	Share    *Share
	Products []GetProductResult
}
