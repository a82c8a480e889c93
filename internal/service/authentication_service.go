package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
	"marketplace-server/internal/util"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials : один ответ и на неизвестный email, и на неверный пароль,
	// чтобы по ответу нельзя было перебирать зарегистрированные адреса
	ErrInvalidCredentials = errors.New("неверный email или пароль")

	// ErrSessionRevoked : предъявлен refresh-токен с валидной подписью, но его дайджест
	// не совпал с сохранённым — признак кражи или повтора после ротации
	ErrSessionRevoked = errors.New("сессия отозвана")

	// ErrSessionExpired : сессия истекла естественным образом
	ErrSessionExpired = errors.New("сессия просрочена")

	ErrUserNotFound = errors.New("пользователь не найден")
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	*config.AppConfig
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	cfg *config.AppConfig,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository,
		jwtService,
		cfg,
	}
}

// Register создаёт учётную запись и сразу открывает сессию
func (s *AuthenticationService) Register(ctx context.Context, email, password, companyName string) (*model.TokensPair, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("[AuthService] некорректный email")
	}
	if companyName == "" {
		return nil, fmt.Errorf("[AuthService] название компании обязательно")
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[AuthService] %w", err)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] не удалось создать хэш пароля: %w", err)
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		CompanyName:  companyName,
		PasswordHash: hash,
	}

	created, err := s.userRepository.CreateUser(ctx, db, user)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	return s.issueSession(ctx, db, created)
}

// Login проверяет учётные данные и открывает сессию
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	user, err := s.userRepository.FindByEmail(ctx, db, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, db, user)
}

// Refresh выполняет ротацию refresh-токена.
// Протокол:
//  1. Подпись и дискриминатор типа проверяются под refresh-секретом.
//  2. sha256-дайджест предъявленного токена сравнивается с сохранённым у пользователя.
//     Несовпадение при валидной подписи — это повтор уже ротированного токена или
//     кража: вся сессия отзывается (дайджест и срок очищаются), клиент получает 401.
//     Смягчать эту ветку в retry нельзя — отзыв сессии здесь и есть защита.
//  3. Просроченная по сохранённому сроку сессия — просто 401 без отзыва.
//  4. При совпадении выдаётся новая пара, новый дайджест затирает старый,
//     прежний refresh-токен с этого момента мёртв.
//
// Гонка двух параллельных Refresh одного пользователя допустима: побеждает последняя
// запись, более ранняя пара инвалидируется — безопасно, лишь неудобно клиенту.
func (s *AuthenticationService) Refresh(ctx context.Context, rawRefreshToken string) (*model.TokensPair, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[AuthService] database connection не найден в context")
	}

	payload, err := s.jwtService.VerifyRefreshToken(rawRefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.FindByUUID(ctx, db, payload.UserUUID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	presentedHash := security.HashRefreshToken(rawRefreshToken)

	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != presentedHash {
		// Отсутствующая сессия трактуется так же, как несовпадение: очистка
		// выполняется безусловно (для пустой сессии это идемпотентный UPDATE)
		if err := s.userRepository.ClearRefreshSession(ctx, db, user.UUID); err != nil {
			log.Printf("[AuthService] не удалось отозвать сессию: %v", err)
		}
		log.Printf("[AuthService] обнаружен повтор refresh-токена для пользователя %s, сессия отозвана", user.UUID)
		return nil, ErrSessionRevoked
	}

	if user.RefreshTokenExpiresAt == nil || time.Now().UTC().After(*user.RefreshTokenExpiresAt) {
		return nil, ErrSessionExpired
	}

	return s.issueSession(ctx, db, user)
}

// Logout закрывает сессию. Идемпотентен: отсутствие сессии или битый токен — не ошибка.
func (s *AuthenticationService) Logout(ctx context.Context, rawRefreshToken string) error {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[AuthService] database connection не найден в context")
	}

	if rawRefreshToken == "" {
		return nil
	}

	payload, err := s.jwtService.VerifyRefreshToken(rawRefreshToken)
	if err != nil {
		return nil // нечего отзывать
	}

	if err := s.userRepository.ClearRefreshSession(ctx, db, payload.UserUUID); err != nil {
		return util.LogError("[AuthService] не удалось очистить сессию", err)
	}

	return nil
}

// issueSession : выпускает пару токенов и сохраняет дайджест refresh-токена у пользователя
func (s *AuthenticationService) issueSession(ctx context.Context, db *config.Database, user *model.User) (*model.TokensPair, error) {
	tokens, err := s.jwtService.GenerateAccessRefreshTokens(user.UUID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации токенов: %w", err)
	}

	tokenHash := security.HashRefreshToken(tokens.RefreshToken)
	expiresAt := s.jwtService.RefreshTokenExpiresAt()

	if err := s.userRepository.UpdateRefreshSession(ctx, db, user.UUID, tokenHash, expiresAt); err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка сохранения refresh сессии: %w", err)
	}

	return tokens, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 {
		return fmt.Errorf("пароль должен содержать буквы в разных регистрах")
	}
	if digitCount < 1 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}

	return nil
}
