package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHTTPStatusThreshold = 300
	webhookTimeout             = 10 * time.Second
)

// WebhookService уведомляет внешний приемник о принудительном отзыве
// сессии. Отправка best-effort: ошибки логируются и не влияют на ответ.
type WebhookService struct {
	client     *http.Client
	log        *zap.SugaredLogger
	webhookURL string
}

func NewWebhookService(log *zap.SugaredLogger, webhookURL string) *WebhookService {
	return &WebhookService{
		client:     &http.Client{},
		log:        log,
		webhookURL: webhookURL,
	}
}

// NotifySessionRevoked отправляет уведомление в отдельной горутине.
// Контекст для POST свой, с таймаутом: исходный запрос к этому моменту
// уже завершен ошибкой и его контекст отменен.
func (s *WebhookService) NotifySessionRevoked(userID int64, username, reason string) {
	go func() {
		if s.webhookURL == "" {
			return
		}

		payload, err := json.Marshal(map[string]interface{}{
			"user_id":  userID,
			"username": username,
			"reason":   reason,
		})
		if err != nil {
			s.log.Errorw("failed to marshal webhook payload", "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewBuffer(payload))
		if err != nil {
			s.log.Errorw("failed to create webhook request", "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			s.log.Errorw("failed to send webhook", "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= defaultHTTPStatusThreshold {
			s.log.Warnw("webhook returned non-2xx status", "status", resp.StatusCode)
		}
	}()
}
