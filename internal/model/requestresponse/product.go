package requestresponse

import (
	"time"

	"marketplace-server/internal/model"
)

// CreateProductRequest : мета-данные нового товара
type CreateProductRequest struct {
	Title       string `json:"title" example:"Кофе зерновой, 1 кг"`
	Description string `json:"description" example:"Арабика, средняя обжарка"`
	Category    string `json:"category" example:"food"`
	Region      string `json:"region" example:"RU-MOW"`
	PriceCents  int64  `json:"price_cents" example:"150000"`
	MinOrderQty int    `json:"min_order_qty" example:"10"`
	ImageName   string `json:"image_name,omitempty" example:"coffee.jpg"`
}

// CreateProductResponse : ответ при создании товара
type CreateProductResponse struct {
	Data struct {
		UUID      string `json:"uuid" example:"qwdj1q4o34u34ih759ou1"`
		UploadURL string `json:"upload_url,omitempty"`
	} `json:"data"`
}

// ProductResponse : описывает товар для JSON-ответа
type ProductResponse struct {
	UUID        string `json:"uuid" example:"qwdj1q4o34u34ih759ou1"`
	SellerUUID  string `json:"seller_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Title       string `json:"title" example:"Кофе зерновой, 1 кг"`
	Description string `json:"description" example:"Арабика, средняя обжарка"`
	Category    string `json:"category" example:"food"`
	Region      string `json:"region" example:"RU-MOW"`
	PriceCents  int64  `json:"price_cents" example:"150000"`
	MinOrderQty int    `json:"min_order_qty" example:"10"`
	ImageURL    string `json:"image_url,omitempty"`
	CreatedAt   string `json:"created" example:"2025-08-23T12:34:56Z"`
}

// ProductResponseFromResult : конвертирует model.GetProductResult в ProductResponse
func ProductResponseFromResult(result *model.GetProductResult) ProductResponse {
	product := result.Product
	return ProductResponse{
		UUID:        product.UUID,
		SellerUUID:  product.SellerUUID,
		Title:       product.Title,
		Description: product.Description,
		Category:    product.Category,
		Region:      product.Region,
		PriceCents:  product.PriceCents,
		MinOrderQty: product.MinOrderQty,
		ImageURL:    result.ImageURL,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339),
	}
}

// GetProductResponse : ответ для одного товара
type GetProductResponse struct {
	Data struct {
		Product ProductResponse `json:"product"`
	} `json:"data"`
}

// UpdateProductRequest : тело запроса на обновление товара
type UpdateProductRequest struct {
	Title       string `json:"title" example:"Кофе зерновой, 1 кг"`
	Description string `json:"description" example:"Арабика, тёмная обжарка"`
	Category    string `json:"category" example:"food"`
	Region      string `json:"region" example:"RU-MOW"`
	PriceCents  int64  `json:"price_cents" example:"145000"`
	MinOrderQty int    `json:"min_order_qty" example:"5"`
}

// ListProductsResponse : ответ API со списком товаров
type ListProductsResponse struct {
	Data struct {
		Products []ProductResponse `json:"products"`
	} `json:"data"`
	NextCursor string `json:"next_cursor,omitempty" example:"qwdj1q4o34u34ih759ou1"`
	Count      int    `json:"count" example:"10"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}
