package requestresponse

import (
	"time"

	"marketplace-server/internal/model"
)

// CreateISORequest : тело запроса на публикацию ISO-заявки
type CreateISORequest struct {
	Title       string `json:"title" example:"Ищу поставщика кофе"`
	Description string `json:"description" example:"Нужна арабика, от 100 кг в месяц"`
	Category    string `json:"category" example:"food"`
	Region      string `json:"region" example:"RU-MOW"`
	BudgetCents int64  `json:"budget_cents" example:"140000"`
	Quantity    int    `json:"quantity" example:"100"`
}

// ISOResponse : заявка для JSON-ответа
type ISOResponse struct {
	UUID        string `json:"uuid" example:"qwdj1q4o34u34ih759ou1"`
	BuyerUUID   string `json:"buyer_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Title       string `json:"title" example:"Ищу поставщика кофе"`
	Description string `json:"description" example:"Нужна арабика, от 100 кг в месяц"`
	Category    string `json:"category" example:"food"`
	Region      string `json:"region" example:"RU-MOW"`
	BudgetCents int64  `json:"budget_cents" example:"140000"`
	Quantity    int    `json:"quantity" example:"100"`
	IsOpen      bool   `json:"is_open" example:"true"`
	CreatedAt   string `json:"created" example:"2025-08-23T12:34:56Z"`
}

func ISOResponseFromModel(iso *model.ISORequest) ISOResponse {
	return ISOResponse{
		UUID:        iso.UUID,
		BuyerUUID:   iso.BuyerUUID,
		Title:       iso.Title,
		Description: iso.Description,
		Category:    iso.Category,
		Region:      iso.Region,
		BudgetCents: iso.BudgetCents,
		Quantity:    iso.Quantity,
		IsOpen:      iso.IsOpen,
		CreatedAt:   iso.CreatedAt.Format(time.RFC3339),
	}
}

// CreateISOResponse : ответ при публикации заявки
type CreateISOResponse struct {
	Data struct {
		ISO ISOResponse `json:"iso"`
	} `json:"data"`
}

// ListISOsResponse : заявки доски с пагинацией
type ListISOsResponse struct {
	Data struct {
		ISOs []ISOResponse `json:"isos"`
	} `json:"data"`
	NextCursor string `json:"next_cursor,omitempty" example:"qwdj1q4o34u34ih759ou1"`
	Count      int    `json:"count" example:"10"`
}

// ISOMatchResponse : товар с посчитанной близостью к заявке
type ISOMatchResponse struct {
	Product ProductResponse `json:"product"`
	Score   float64         `json:"score" example:"0.85"`
}

// ListISOMatchesResponse : ранжированные совпадения для заявки
type ListISOMatchesResponse struct {
	Data struct {
		Matches []ISOMatchResponse `json:"matches"`
	} `json:"data"`
}
