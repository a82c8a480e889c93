package security

import "golang.org/x/crypto/bcrypt"

// bcrypt сам хранит соль внутри хэша, cost 12 — осознанный выбор против перебора
const passwordHashCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword : несовпадение пароля — это false, а не ошибка
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
