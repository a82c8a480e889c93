package requestresponse

import (
	"time"

	"marketplace-server/internal/model"
)

// CreateShareRequest : тело запроса на создание подборки
type CreateShareRequest struct {
	Title        string   `json:"title" example:"Осенняя коллекция"`
	ProductUUIDs []string `json:"product_uuids" example:"['uuid1','uuid2']"`
}

// ShareResponse : подборка для JSON-ответа
type ShareResponse struct {
	UUID         string   `json:"uuid" example:"qwdj1q4o34u34ih759ou1"`
	Title        string   `json:"title" example:"Осенняя коллекция"`
	AccessToken  string   `json:"access_token" example:"sfuqwejqjoiu93e29"`
	ProductUUIDs []string `json:"product_uuids"`
	CreatedAt    string   `json:"created" example:"2025-08-23T12:34:56Z"`
}

func ShareResponseFromModel(share *model.Share) ShareResponse {
	return ShareResponse{
		UUID:         share.UUID,
		Title:        share.Title,
		AccessToken:  share.AccessToken,
		ProductUUIDs: share.ProductUUIDs,
		CreatedAt:    share.CreatedAt.Format(time.RFC3339),
	}
}

// CreateShareResponse : ответ при создании подборки
type CreateShareResponse struct {
	Data struct {
		Share ShareResponse `json:"share"`
	} `json:"data"`
}

// GetPublicShareResponse : публичная подборка с товарами
type GetPublicShareResponse struct {
	Data struct {
		Title    string            `json:"title"`
		Products []ProductResponse `json:"products"`
	} `json:"data"`
}

// ListSharesResponse : подборки продавца
type ListSharesResponse struct {
	Data struct {
		Shares []ShareResponse `json:"shares"`
	} `json:"data"`
}
