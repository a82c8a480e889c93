package model

import "time"

type User struct {
	UUID         string    `db:"uuid" json:"uuid"`
	Email        string    `db:"email" json:"email"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// Состояние текущей сессии: хранится только sha256-дайджест refresh-токена,
	// сам токен остаётся у клиента. На пользователя — не больше одной активной сессии.
	RefreshTokenHash      *string    `db:"refresh_token_hash" json:"-"`
	RefreshTokenExpiresAt *time.Time `db:"refresh_token_expires_at" json:"-"`
}
