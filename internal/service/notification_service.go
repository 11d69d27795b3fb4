package service

import (
	"context"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/config"
)

// NotificationService delivers push notifications to a device token. Send
// reports success as a bool and never returns an error: a failed push must not
// fail the business operation that triggered it.
type NotificationService interface {
	Send(ctx context.Context, token string, data map[string]string) bool
}

// NewNotificationService returns the FCM client when credentials are
// configured, otherwise the no-op implementation.
func NewNotificationService(cfg config.FCMConfig, log *zap.Logger) NotificationService {
	if cfg.CredentialsFile == "" {
		log.Info("push notifications disabled, no FCM credentials configured")
		return &noopNotificationService{log: log}
	}
	return NewFcmNotificationService(cfg, log)
}

type fcmNotificationService struct {
	client    *resty.Client
	projectID string
	log       *zap.Logger
}

// NewFcmNotificationService creates a client for the FCM HTTP v1 API. The
// credentials file holds the bearer credential for the configured project.
func NewFcmNotificationService(cfg config.FCMConfig, log *zap.Logger) NotificationService {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")

	if raw, err := os.ReadFile(cfg.CredentialsFile); err == nil {
		client.SetAuthToken(strings.TrimSpace(string(raw)))
	} else {
		log.Warn("failed to read FCM credentials file", zap.String("path", cfg.CredentialsFile), zap.Error(err))
	}

	return &fcmNotificationService{client: client, projectID: cfg.ProjectID, log: log}
}

func (s *fcmNotificationService) Send(ctx context.Context, token string, data map[string]string) bool {
	if token == "" {
		return false
	}
	body := map[string]any{
		"message": map[string]any{
			"token": token,
			"data":  data,
		},
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v1/projects/" + s.projectID + "/messages:send")
	if err != nil {
		s.log.Warn("push notification failed", zap.Error(err))
		return false
	}
	if resp.IsError() {
		s.log.Warn("push notification rejected",
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", resp.Body()))
		return false
	}
	return true
}

type noopNotificationService struct {
	log *zap.Logger
}

func (s *noopNotificationService) Send(_ context.Context, token string, _ map[string]string) bool {
	s.log.Debug("push notification skipped", zap.Bool("has_token", token != ""))
	return false
}
