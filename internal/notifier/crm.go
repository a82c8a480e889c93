package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CRMEvent : событие синхронизации для внешней CRM/ERP
type CRMEvent struct {
	Type     string    `json:"type"`
	UserUUID string    `json:"user_uuid"`
	EntityID string    `json:"entity_id"`
	Occurred time.Time `json:"occurred"`
}

// NotifyCRM отправляет событие POST-запросом на webhook CRM.
// Ошибка доставки логируется вызывающим и никогда не ломает исходный запрос.
func NotifyCRM(url string, timeout time.Duration, event CRMEvent) error {
	if url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события CRM: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка отправки webhook CRM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook CRM вернул статус %d", resp.StatusCode)
	}

	return nil
}
