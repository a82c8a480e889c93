package requestresponse

// AddToShortlistRequest : тело запроса на добавление товара в шортлист
type AddToShortlistRequest struct {
	ProductUUID string `json:"product_uuid" example:"qwdj1q4o34u34ih759ou1"`
}

// ShortlistResponse : шортлист покупателя
type ShortlistResponse struct {
	Data struct {
		Products []ProductResponse `json:"products"`
	} `json:"data"`
}
