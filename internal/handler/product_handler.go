package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"marketplace-server/internal/model"
	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProductHandler struct {
	ports.ProductService
}

func NewProductHandler(productService ports.ProductService) *ProductHandler {
	return &ProductHandler{productService}
}

// CreateProduct godoc
// @Summary Создание товара
// @Description Сохраняет товар продавца. Если указано image_name, в ответе приходит pre-signed PUT URL для загрузки изображения напрямую в S3.
// @Tags Products
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateProductRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CreateProductResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req requestresponse.CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	product := &model.Product{
		UUID:        uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		PriceCents:  req.PriceCents,
		MinOrderQty: req.MinOrderQty,
	}
	if req.ImageName != "" {
		product.ImageKey = fmt.Sprintf("products/%s/%s", product.UUID, req.ImageName)
	}

	putURL, err := h.ProductService.CreateProduct(r.Context(), product)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "обязательны"),
			strings.Contains(err.Error(), "цена"):
			sendErrorResponse(w, 400, "bad request")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	resp := requestresponse.CreateProductResponse{}
	resp.Data.UUID = product.UUID
	resp.Data.UploadURL = putURL

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetProduct godoc
// @Summary Получение товара
// @Tags Products
// @Produce json
// @Param uuid path string true "UUID товара"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.GetProductResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/products/{uuid} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	productUUID := chi.URLParam(r, "uuid")

	result, err := h.ProductService.GetProduct(r.Context(), productUUID)
	if err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не найден"):
			sendErrorResponse(w, 404, "товар не найден")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.GetProductResponse{}
	resp.Data.Product = requestresponse.ProductResponseFromResult(result)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetProductHead godoc
// @Summary Получение товара
// @Tags Products
// @Produce json
// @Param uuid path string true "UUID товара"
// @Success 200 {object} requestresponse.GetProductResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/products/{uuid} [head]
func (h *ProductHandler) GetProductHead(w http.ResponseWriter, r *http.Request) {
	h.GetProduct(w, r)
}

// ListProducts godoc
// @Summary Каталог товаров
// @Description Cursor-based пагинация с фильтрами по категории и региону
// @Tags Products
// @Produce json
// @Param category query string false "Категория"
// @Param region query string false "Регион"
// @Param cursor query string false "Курсор следующей страницы"
// @Param limit query int false "Размер страницы" default(20)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListProductsResponse
// @Router /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil {
		limit = 20
	}

	results, nextCursor, err := h.ProductService.ListProducts(r.Context(), query.Get("category"), query.Get("region"), query.Get("cursor"), limit)
	if err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.ListProductsResponse{}
	resp.Data.Products = make([]requestresponse.ProductResponse, 0, len(results))
	for i := range results {
		resp.Data.Products = append(resp.Data.Products, requestresponse.ProductResponseFromResult(&results[i]))
	}
	resp.NextCursor = nextCursor
	resp.Count = len(resp.Data.Products)

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// ListProductsHead godoc
// @Summary Каталог товаров
// @Tags Products
// @Produce json
// @Success 200 {object} requestresponse.ListProductsResponse
// @Router /api/products [head]
func (h *ProductHandler) ListProductsHead(w http.ResponseWriter, r *http.Request) {
	h.ListProducts(w, r)
}

// UpdateProduct godoc
// @Summary Обновление товара
// @Description Доступен только продавцу-владельцу
// @Tags Products
// @Accept json
// @Produce json
// @Param uuid path string true "UUID товара"
// @Param body body requestresponse.UpdateProductRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/products/{uuid} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	productUUID := chi.URLParam(r, "uuid")

	var req requestresponse.UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	product := &model.Product{
		UUID:        productUUID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		PriceCents:  req.PriceCents,
		MinOrderQty: req.MinOrderQty,
	}

	if err := h.ProductService.UpdateProduct(r.Context(), product); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найден или доступ запрещён"):
			sendErrorResponse(w, 404, "товар не найден")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "товар обновлён"})
}

// DeleteProduct godoc
// @Summary Удаление товара
// @Description Мягкое удаление с очисткой изображения из S3. Доступен только продавцу-владельцу.
// @Tags Products
// @Produce json
// @Param uuid path string true "UUID товара"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.SuccessResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/products/{uuid} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	productUUID := chi.URLParam(r, "uuid")

	if err := h.ProductService.DeleteProduct(r.Context(), productUUID); err != nil {
		log.Println(err)
		switch {
		case strings.Contains(err.Error(), "не авторизован"):
			sendErrorResponse(w, 401, "не авторизован")
		case strings.Contains(err.Error(), "не найден или доступ запрещён"):
			sendErrorResponse(w, 404, "товар не найден")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "товар удалён"})
}
