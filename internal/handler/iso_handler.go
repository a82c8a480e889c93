package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace-server/internal/model"
	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/ports"

	"github.com/go-chi/chi/v5"
)

type ISOHandler struct {
	ports.ISOService
}

func NewISOHandler(isoService ports.ISOService) *ISOHandler {
	return &ISOHandler{isoService}
}

// CreateISO godoc
// @Summary Публикация ISO-заявки
// @Description Покупатель публикует заявку "in search of" на доске запросов
// @Tags ISO
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateISORequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CreateISOResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/iso [post]
func (h *ISOHandler) CreateISO(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.CreateISORequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	iso := &model.ISORequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		BudgetCents: req.BudgetCents,
		Quantity:    req.Quantity,
	}

	if err := h.ISOService.CreateISO(r.Context(), iso); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "обязательны"),
			strings.Contains(err.Error(), "бюджет"):
			sendErrorResponse(w, 400, "bad request")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.CreateISOResponse{}
	resp.Data.ISO = requestresponse.ISOResponseFromModel(iso)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetISO godoc
// @Summary Получение заявки
// @Tags ISO
// @Produce json
// @Param uuid path string true "UUID заявки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CreateISOResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/iso/{uuid} [get]
func (h *ISOHandler) GetISO(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	isoUUID := chi.URLParam(r, "uuid")

	iso, err := h.ISOService.GetISO(r.Context(), isoUUID)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найдена"):
			sendErrorResponse(w, 404, "заявка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.CreateISOResponse{}
	resp.Data.ISO = requestresponse.ISOResponseFromModel(iso)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// ListISOs godoc
// @Summary Доска заявок
// @Description Открытые ISO-заявки с фильтрами и cursor-based пагинацией
// @Tags ISO
// @Produce json
// @Param category query string false "Категория"
// @Param region query string false "Регион"
// @Param cursor query string false "Курсор следующей страницы"
// @Param limit query int false "Размер страницы" default(20)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListISOsResponse
// @Router /api/iso [get]
func (h *ISOHandler) ListISOs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		limit = 20
	}

	isos, nextCursor, err := h.ISOService.ListISOs(r.Context(), query.Get("category"), query.Get("region"), query.Get("cursor"), limit)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	resp := requestresponse.ListISOsResponse{}
	resp.Data.ISOs = make([]requestresponse.ISOResponse, 0, len(isos))
	for i := range isos {
		resp.Data.ISOs = append(resp.Data.ISOs, requestresponse.ISOResponseFromModel(&isos[i]))
	}
	resp.NextCursor = nextCursor
	resp.Count = len(resp.Data.ISOs)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// MatchProducts godoc
// @Summary Совпадения для заявки
// @Description Товары, ранжированные по близости к заявке. Балл учитывает категорию, регион и бюджет.
// @Tags ISO
// @Produce json
// @Param uuid path string true "UUID заявки"
// @Param limit query int false "Максимум совпадений" default(20)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListISOMatchesResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/iso/{uuid}/matches [get]
func (h *ISOHandler) MatchProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	isoUUID := chi.URLParam(r, "uuid")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 20
	}

	matches, err := h.ISOService.MatchProducts(r.Context(), isoUUID, limit)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найдена"):
			sendErrorResponse(w, 404, "заявка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.ListISOMatchesResponse{}
	resp.Data.Matches = make([]requestresponse.ISOMatchResponse, 0, len(matches))
	for _, match := range matches {
		product := match.Product
		resp.Data.Matches = append(resp.Data.Matches, requestresponse.ISOMatchResponse{
			Product: requestresponse.ProductResponse{
				UUID:        product.UUID,
				SellerUUID:  product.SellerUUID,
				Title:       product.Title,
				Description: product.Description,
				Category:    product.Category,
				Region:      product.Region,
				PriceCents:  product.PriceCents,
				MinOrderQty: product.MinOrderQty,
				CreatedAt:   product.CreatedAt.Format(time.RFC3339),
			},
			Score: match.Score,
		})
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// CloseISO godoc
// @Summary Закрытие заявки
// @Description Доступно только покупателю-автору
// @Tags ISO
// @Produce json
// @Param uuid path string true "UUID заявки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/iso/{uuid}/close [post]
func (h *ISOHandler) CloseISO(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	isoUUID := chi.URLParam(r, "uuid")

	if err := h.ISOService.CloseISO(r.Context(), isoUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найдена или доступ запрещён"):
			sendErrorResponse(w, 404, "заявка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "заявка закрыта"})
}

// DeleteISO godoc
// @Summary Удаление заявки
// @Description Доступно только покупателю-автору
// @Tags ISO
// @Produce json
// @Param uuid path string true "UUID заявки"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/iso/{uuid} [delete]
func (h *ISOHandler) DeleteISO(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	isoUUID := chi.URLParam(r, "uuid")

	if err := h.ISOService.DeleteISO(r.Context(), isoUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найдена или доступ запрещён"):
			sendErrorResponse(w, 404, "заявка не найдена")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "заявка удалена"})
}
