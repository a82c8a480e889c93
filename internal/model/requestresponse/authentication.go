package requestresponse

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email       string `json:"email" example:"buyer@acme.example"`
	Password    string `json:"password" example:"P@ssw0rd123"`
	CompanyName string `json:"company_name" example:"ООО Ромашка"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"buyer@acme.example"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// LoginResponse : ответ на успешную аутентификацию.
// Refresh-токен в JSON не попадает — он уходит в HTTP-only cookie.
type LoginResponse struct {
	Response struct {
		AccessToken string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Email    string `json:"email" example:"buyer@acme.example"`
	} `json:"response"`
}

// RefreshTokenResponse : ответ на успешную ротацию
type RefreshTokenResponse struct {
	Response struct {
		AccessToken string `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		LoggedOut bool `json:"logged_out" example:"true"`
	} `json:"response"`
}
