package service

import (
	"context"
	"fmt"

	"marketplace-server/config"
	"marketplace-server/internal/model"
	"marketplace-server/internal/ports"
	"marketplace-server/internal/security"
)

type UserService struct {
	userRepository ports.UserRepository
}

func NewUserService(userRepository ports.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) GetUser(ctx context.Context, uuid string) (*model.User, error) {
	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, fmt.Errorf("[UserService] database connection не найден в context")
	}

	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return nil, fmt.Errorf("[UserService] пользователь не авторизован")
	}

	if principal.IsAdmin == false && principal.UserUUID != uuid {
		return nil, fmt.Errorf("[UserService] доступ запрещён")
	}

	user, err := s.userRepository.FindByUUID(ctx, db, uuid)
	if err != nil || user == nil {
		return nil, fmt.Errorf("[UserService] пользователь не найден")
	}

	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, updatedUser *model.User) error {
	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[UserService] пользователь не авторизован")
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return fmt.Errorf("[UserService] database connection не найден в context")
	}

	if principal.UserUUID != updatedUser.UUID {
		return fmt.Errorf("[UserService] доступ запрещён")
	}

	return s.userRepository.UpdateUser(ctx, db, updatedUser)
}

func (s *UserService) UpdatePassword(ctx context.Context, uuid, newPassword string) error {
	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[UserService] пользователь не авторизован")
	}

	db, ok := ctx.Value("db").(*config.Database)
	if ok == false {
		return fmt.Errorf("[UserService] database connection не найден в context")
	}

	if principal.UserUUID != uuid {
		return fmt.Errorf("[UserService] доступ запрещён")
	}

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("[UserService] %w", err)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepository.UpdatePassword(ctx, db, uuid, hash)
}

func (s *UserService) DeleteUser(ctx context.Context, uuid string) error {
	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil {
		return fmt.Errorf("[UserService] пользователь не авторизован")
	}

	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return fmt.Errorf("[UserService] database connection не найден в context")
	}

	if principal.IsAdmin == false && principal.UserUUID != uuid {
		return fmt.Errorf("[UserService] доступ запрещён")
	}

	if err := s.userRepository.DeleteUser(ctx, db, uuid); err != nil {
		return fmt.Errorf("[UserService] пользователь не найден")
	}

	return nil
}

// ListUsers : список доступен только администратору
func (s *UserService) ListUsers(ctx context.Context, cursor string, limit int) ([]*model.User, string, error) {
	principal, err := security.GetPrincipalFromContext(ctx)
	if err != nil || principal == nil || principal.IsAdmin == false {
		return nil, "", fmt.Errorf("[UserService] доступ запрещён: нужен админ")
	}

	db, ok := ctx.Value("db").(*config.Database)
	if !ok {
		return nil, "", fmt.Errorf("[UserService] database connection не найден в context")
	}

	users, nextCursor, err := s.userRepository.ListUsers(ctx, db, cursor, limit)
	if err != nil {
		return nil, "", err
	}

	return users, nextCursor, nil
}
