// Package notify delivers fire-and-forget notices to consultants. Dispatch
// happens outside the saga boundary: failures are logged, never compensated
// and never affect the reported outcome of an orchestration.
package notify

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"counselgo/backend/internal/models"
	"counselgo/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is the outbound notification port of the orchestrators.
type Notifier interface {
	NotifySessionAssigned(consultant *models.Consultant, session *models.Session, assignedBy string)
	NotifyNewEnquiry(session *models.Session, consultants []models.Consultant)
}

// Dispatcher fans events out over the redis notification channel and, for
// consultants with a linked telegram account, via bot message.
type Dispatcher struct {
	Storage storage.Storage
	Bot     *tgbotapi.BotAPI
}

// NewDispatcher creates a dispatcher. bot may be nil when telegram delivery
// is not configured.
func NewDispatcher(s storage.Storage, bot *tgbotapi.BotAPI) *Dispatcher {
	return &Dispatcher{Storage: s, Bot: bot}
}

// NotifySessionAssigned informs the consultant that a session was assigned
// to them by someone else.
func (d *Dispatcher) NotifySessionAssigned(consultant *models.Consultant, session *models.Session, assignedBy string) {
	event := models.NotificationEvent{
		Type:         models.NotificationSessionAssigned,
		SessionID:    session.ID,
		AgencyID:     session.AgencyID,
		ConsultantID: consultant.ID,
		Message:      fmt.Sprintf("Session %d was assigned to you by %s.", session.ID, assignedBy),
		CreatedAt:    time.Now(),
	}

	go func() {
		d.publish(event)
		d.sendTelegram(consultant, event.Message)
	}()
}

// NotifyNewEnquiry informs the agency's consultants about a new enquiry.
// Absent consultants are skipped.
func (d *Dispatcher) NotifyNewEnquiry(session *models.Session, consultants []models.Consultant) {
	event := models.NotificationEvent{
		Type:      models.NotificationNewEnquiry,
		SessionID: session.ID,
		AgencyID:  session.AgencyID,
		Message:   fmt.Sprintf("A new enquiry arrived for agency %d.", session.AgencyID),
		CreatedAt: time.Now(),
	}

	// Copy before leaving the saga's thread of control.
	recipients := make([]models.Consultant, len(consultants))
	copy(recipients, consultants)

	go func() {
		d.publish(event)
		for i := range recipients {
			if recipients[i].Absent {
				continue
			}
			d.sendTelegram(&recipients[i], event.Message)
		}
	}()
}

func (d *Dispatcher) publish(event models.NotificationEvent) {
	if err := d.Storage.PublishNotification(event); err != nil {
		log.Printf("ERROR: Failed to publish %s notification for session %d: %v",
			event.Type, event.SessionID, err)
	}
}

func (d *Dispatcher) sendTelegram(consultant *models.Consultant, text string) {
	if d.Bot == nil || consultant.TelegramID == nil {
		return
	}
	chatID, err := strconv.ParseInt(*consultant.TelegramID, 10, 64)
	if err != nil || chatID == 0 {
		return
	}
	if _, err := d.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send telegram notification to consultant %s: %v",
			consultant.ID, err)
	}
}
