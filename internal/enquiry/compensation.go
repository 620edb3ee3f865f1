package enquiry

import (
	"errors"
	"log"

	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/models"
)

// compensation carries the identifiers of everything the saga created so
// far. It is built up incrementally as steps complete and only ever lives
// on the call path of the current request; a crash mid-saga leaves the
// created rooms orphaned.
type compensation struct {
	session         *models.Session
	groupID         string
	feedbackGroupID string
	creds           chat.Credentials
}

// compensate undoes the recorded steps: delete the created rooms and clear
// the session's enquiry fields. Single-pass and best effort; failures are
// logged and never compensated again. Rooms that are already gone count as
// cleaned up.
func (o *Orchestrator) compensate(c compensation) {
	if c.groupID != "" {
		if err := o.Gateway.DeleteRoom(c.groupID, c.creds); err != nil && !errors.Is(err, chat.ErrRoomNotFound) {
			log.Printf("ERROR: Compensation failed: room %s could not be deleted: %v", c.groupID, err)
		}
	}

	if c.feedbackGroupID != "" {
		if err := o.Gateway.DeleteRoomAsSystemUser(c.feedbackGroupID); err != nil && !errors.Is(err, chat.ErrRoomNotFound) {
			log.Printf("ERROR: Compensation failed: feedback room %s could not be deleted: %v",
				c.feedbackGroupID, err)
		}
	}

	if c.session != nil {
		if err := o.Storage.ResetSessionEnquiry(c.session); err != nil {
			log.Printf("ERROR: Compensation failed: session %d could not be reset: %v",
				c.session.ID, err)
		}
	}
}
