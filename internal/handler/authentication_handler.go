package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"marketplace-server/internal/model/requestresponse"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
	"marketplace-server/internal/service"

	"github.com/lib/pq"
)

// код ошибки PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// имя HTTP-only cookie с refresh-токеном; в тело ответа сырой токен не попадает
const refreshCookieName = "refreshToken"

type AuthenticationHandler struct {
	ports.AuthenticationService
	ports.JWTServiceInterface
}

func NewAuthenticationHandler(
	authenticationService *service.AuthenticationService,
	jwtServiceInterface ports.JWTServiceInterface,
) *AuthenticationHandler {
	return &AuthenticationHandler{
		authenticationService,
		jwtServiceInterface,
	}
}

// Register godoc
// @Summary Регистрация компании
// @Description Создаёт учётную запись и сразу открывает сессию: access-токен в теле, refresh-токен в HTTP-only cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, err := h.AuthenticationService.Register(ctx, req.Email, req.Password, req.CompanyName)
	if err != nil {
		log.Println(err)
		var pqErr *pq.Error
		switch {
		case strings.Contains(err.Error(), "некорректный email"),
			strings.Contains(err.Error(), "название компании"),
			strings.Contains(err.Error(), "пароль"):
			sendErrorResponse(w, 400, "bad request")
		case errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation:
			sendErrorResponse(w, 409, "пользователь с таким email уже существует")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	resp := requestresponse.LoginResponse{}
	resp.Response.AccessToken = tokens.AccessToken

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access-токена по email и паролю; refresh-токен уходит в HTTP-only cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, 400, "некорректный JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, 400, "email и password обязательны")
		return
	}

	tokens, err := h.AuthenticationService.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			// один и тот же ответ на неизвестный email и на неверный пароль
			sendErrorResponse(w, 401, "неверный email или пароль")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	resp := requestresponse.LoginResponse{}
	resp.Response.AccessToken = tokens.AccessToken

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// RefreshToken godoc
// @Summary Ротация пары токенов
// @Description Обновляет пару по refresh-токену из cookie. Повтор уже ротированного токена отзывает всю сессию.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.RefreshTokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Невалидный, просроченный или отозванный токен"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь больше не существует"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		sendErrorResponse(w, 401, "refresh-токен не найден")
		return
	}

	tokens, err := h.AuthenticationService.Refresh(ctx, cookie.Value)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			sendErrorResponse(w, 401, "токен просрочен")
		case errors.Is(err, service.ErrSessionExpired):
			sendErrorResponse(w, 401, "сессия просрочена")
		case errors.Is(err, service.ErrSessionRevoked):
			h.clearRefreshCookie(w)
			sendErrorResponse(w, 401, "сессия отозвана")
		case errors.Is(err, security.ErrInvalidToken):
			sendErrorResponse(w, 401, "невалидный токен")
		case errors.Is(err, service.ErrUserNotFound):
			sendErrorResponse(w, 404, "пользователь не найден")
		default:
			sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		}
		return
	}

	h.setRefreshCookie(w, tokens.RefreshToken)

	resp := requestresponse.RefreshTokenResponse{}
	resp.Response.AccessToken = tokens.AccessToken

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// Logout godoc
// @Summary Завершение сессии
// @Description Очищает серверную сессию и cookie. Идемпотентен: без cookie тоже отвечает 200.
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	ctx := r.Context()

	var rawToken string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		rawToken = cookie.Value
	}

	if err := h.AuthenticationService.Logout(ctx, rawToken); err != nil {
		log.Println(err)
		sendErrorResponse(w, 500, "внутренняя ошибка сервера")
		return
	}

	h.clearRefreshCookie(w)

	resp := requestresponse.LogoutResponse{}
	resp.Response.LoggedOut = true

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUser godoc
// @Summary Информация о текущем пользователе
// @Description Возвращает UUID и email пользователя по access-токену
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthenticationHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	principal, err := security.GetPrincipalFromContext(r.Context())
	if err != nil || principal == nil {
		sendErrorResponse(w, 401, "не авторизован")
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = principal.UserUUID
	resp.Response.Email = principal.Email

	w.WriteHeader(200)
	json.NewEncoder(w).Encode(resp)
}

// GetCurrentUserHead godoc
// @Summary Информация о текущем пользователе
// @Tags Authentication
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/auth/me [head]
func (h *AuthenticationHandler) GetCurrentUserHead(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentUser(w, r)
}

func (h *AuthenticationHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		Expires:  h.JWTServiceInterface.RefreshTokenExpiresAt(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthenticationHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
