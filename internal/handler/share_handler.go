package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/service"

	"github.com/go-chi/chi/v5"
)

type ShareHandler struct {
	ports.ShareService
}

func NewShareHandler(shareService ports.ShareService) *ShareHandler {
	return &ShareHandler{shareService}
}

// CreateShare godoc
// @Summary Создание подборки
// @Description Создаёт курируемую подборку товаров продавца с публичным токеном доступа
// @Tags Shares
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateShareRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CreateShareResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/shares [post]
func (h *ShareHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.CreateShareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	share, err := h.ShareService.CreateShare(r.Context(), req.Title, req.ProductUUIDs)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case errors.Is(err, service.ErrShareEmpty):
			sendErrorResponse(w, 400, "подборка не может быть пустой")
		case errors.Is(err, service.ErrShareForeignProduct):
			sendErrorResponse(w, 400, "товар не принадлежит продавцу")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.CreateShareResponse{}
	resp.Data.Share = requestresponse.ShareResponseFromModel(share)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetPublicShare godoc
// @Summary Публичный просмотр подборки
// @Description Доступен без авторизации по токену подборки. Отозванные подборки недоступны.
// @Tags Shares
// @Produce json
// @Param token path string true "Публичный токен подборки"
// @Success 200 {object} requestresponse.GetPublicShareResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /public/shares/{token} [get]
func (h *ShareHandler) GetPublicShare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	token := chi.URLParam(r, "token")

	result, err := h.ShareService.GetPublicShare(r.Context(), token)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найдена"):
			sendErrorResponse(w, 404, "подборка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.GetPublicShareResponse{}
	resp.Data.Title = result.Share.Title
	resp.Data.Products = make([]requestresponse.ProductResponse, 0, len(result.Products))
	for i := range result.Products {
		resp.Data.Products = append(resp.Data.Products, requestresponse.ProductResponseFromResult(&result.Products[i]))
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetPublicShareHead godoc
// @Summary Публичный просмотр подборки
// @Tags Shares
// @Produce json
// @Param token path string true "Публичный токен подборки"
// @Success 200 {object} requestresponse.GetPublicShareResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /public/shares/{token} [head]
func (h *ShareHandler) GetPublicShareHead(w http.ResponseWriter, r *http.Request) {
	h.GetPublicShare(w, r)
}

// ListShares godoc
// @Summary Подборки продавца
// @Tags Shares
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListSharesResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/shares [get]
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	shares, err := h.ShareService.ListShares(r.Context())
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

	resp := requestresponse.ListSharesResponse{}
	resp.Data.Shares = make([]requestresponse.ShareResponse, 0, len(shares))
	for i := range shares {
		resp.Data.Shares = append(resp.Data.Shares, requestresponse.ShareResponseFromModel(&shares[i]))
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// RevokeShare godoc
// @Summary Отзыв подборки
// @Description После отзыва публичная ссылка перестаёт работать
// @Tags Shares
// @Produce json
// @Param uuid path string true "UUID подборки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/shares/{uuid} [delete]
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	shareUUID := chi.URLParam(r, "uuid")

	if err := h.ShareService.RevokeShare(r.Context(), shareUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найдена"):
			sendErrorResponse(w, 404, "подборка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "подборка отозвана"})
}
