package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/ports"

	"github.com/go-chi/chi/v5"
)

type ShortlistHandler struct {
	ports.ShortlistService
}

func NewShortlistHandler(shortlistService ports.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{shortlistService}
}

// AddToShortlist godoc
// @Summary Добавление в шортлист
// @Description Добавляет товар в шортлист покупателя. Повторное добавление не является ошибкой.
// @Tags Shortlist
// @Accept json
// @Produce json
// @Param body body requestresponse.AddToShortlistRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/shortlist [post]
func (h *ShortlistHandler) AddToShortlist(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.AddToShortlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if err := h.ShortlistService.AddToShortlist(r.Context(), req.ProductUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найден"):
			sendErrorResponse(w, 404, "товар не найден")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "товар добавлен в шортлист"})
}

// RemoveFromShortlist godoc
// @Summary Удаление из шортлиста
// @Description Удаление отсутствующего товара не является ошибкой
// @Tags Shortlist
// @Produce json
// @Param uuid path string true "UUID товара"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/shortlist/{uuid} [delete]
func (h *ShortlistHandler) RemoveFromShortlist(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	productUUID := chi.URLParam(r, "uuid")

	if err := h.ShortlistService.RemoveFromShortlist(r.Context(), productUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "товар удалён из шортлиста"})
}

// ListShortlist godoc
// @Summary Шортлист покупателя
// @Tags Shortlist
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ShortlistResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/shortlist [get]
func (h *ShortlistHandler) ListShortlist(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	results, err := h.ShortlistService.ListShortlist(r.Context())
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.ShortlistResponse{}
	resp.Data.Products = make([]requestresponse.ProductResponse, 0, len(results))
	for i := range results {
		resp.Data.Products = append(resp.Data.Products, requestresponse.ProductResponseFromResult(&results[i]))
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}
