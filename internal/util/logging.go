package util

import (
	"fmt"
	"log"
)

// LogError пишет ошибку в лог и возвращает её обёрнутой через %w,
// чтобы репозитории и сервисы не теряли исходную ошибку
// (errors.Is/As на уровне хендлеров продолжают работать).
func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}
