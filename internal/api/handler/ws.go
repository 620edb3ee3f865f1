package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"counselgo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeNotifications upgrades the connection and streams notification
// events relevant to the calling consultant: agency-wide enquiry notices
// and assignments addressed to them.
func (h *Handler) ServeNotifications(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.IsConsultant() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "consultant role required"})
		return
	}

	consultant, err := h.Storage.GetConsultantByID(caller.UserID)
	if err != nil || consultant == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "caller is not a consultant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	pubsub := h.Notifications.SubscribeNotifications()

	// Read pump: only there to notice the peer going away.
	go func() {
		defer pubsub.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Write pump: forward matching events until the subscription closes.
	go func() {
		defer conn.Close()
		for msg := range pubsub.Channel() {
			var event models.NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Invalid notification payload: %v", err)
				continue
			}
			if !eventForConsultant(event, consultant) {
				continue
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Notification stream closed for consultant %s: %v", consultant.ID, err)
				return
			}
		}
	}()
}

func eventForConsultant(event models.NotificationEvent, consultant *models.Consultant) bool {
	if event.ConsultantID != "" {
		return event.ConsultantID == consultant.ID
	}
	return consultant.InAgency(event.AgencyID)
}
