package handler

import (
	"counselgo/backend/internal/assign"
	"counselgo/backend/internal/enquiry"
	"counselgo/backend/internal/storage"

	"github.com/redis/go-redis/v9"
)

// NotificationSource provides the redis subscription backing the ws stream.
type NotificationSource interface {
	SubscribeNotifications() *redis.PubSub
}

// Handler bundles the HTTP endpoints of the service.
type Handler struct {
	Storage       storage.Storage
	Notifications NotificationSource
	Assign        *assign.Orchestrator
	Enquiry       *enquiry.Orchestrator
	JWTSecret     []byte
}

// NewHandler creates the handler.
func NewHandler(s storage.Storage, n NotificationSource, a *assign.Orchestrator, e *enquiry.Orchestrator, jwtSecret []byte) *Handler {
	return &Handler{
		Storage:       s,
		Notifications: n,
		Assign:        a,
		Enquiry:       e,
		JWTSecret:     jwtSecret,
	}
}
