package service

import (
	"context"
	"log"
	"time"

	"carebridge/internal/models"
)

// AlertService forwards critical notifications to the current user's
// inbox. It satisfies the notification center's alerter contract.
type AlertService struct {
	email       *EmailService
	currentUser func() *models.User
}

// NewAlertService creates an alert service that resolves the recipient
// at send time via currentUser.
func NewAlertService(email *EmailService, currentUser func() *models.User) *AlertService {
	return &AlertService{email: email, currentUser: currentUser}
}

// SendCriticalAlert delivers one critical notification by email.
// Delivery is best-effort; failures are logged, never surfaced.
func (s *AlertService) SendCriticalAlert(item models.NotificationItem) {
	user := s.currentUser()
	if user == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.email.SendCriticalAlertEmail(ctx, user.Email, user.Name, item); err != nil {
		log.Printf("Failed to send critical alert email: %v", err)
	}
}
