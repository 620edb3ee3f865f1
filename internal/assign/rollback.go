package assign

import (
	"log"

	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/models"
)

// sessionSnapshot captures the pre-saga consultant/status fields of a
// session, the rollback target of every compensation path.
type sessionSnapshot struct {
	consultant   *models.Consultant
	consultantID *string
	status       models.SessionStatus
}

func takeSessionSnapshot(session *models.Session) sessionSnapshot {
	return sessionSnapshot{
		consultant:   session.Consultant,
		consultantID: session.ConsultantID,
		status:       session.Status,
	}
}

// rollbackSessionUpdate restores the session's consultant and status to
// their pre-saga values. Best effort: a failure to persist the rollback is
// logged, not retried.
func (o *Orchestrator) rollbackSessionUpdate(session *models.Session, prior sessionSnapshot) {
	if session == nil {
		return
	}
	if err := o.Storage.UpdateSessionConsultant(session, prior.consultantID, prior.status); err != nil {
		log.Printf("ERROR: Rollback failed: could not restore consultant/status of session %d: %v",
			session.ID, err)
		return
	}
	session.Consultant = prior.consultant
}

// restoreRemovedMembers re-adds every member of the snapshot that is no
// longer in the room, mediated by the technical actor. Compensation is
// single-pass: every failure is logged and skipped, never compensated
// again.
func (o *Orchestrator) restoreRemovedMembers(roomID string, snapshot []chat.Member) {
	if len(snapshot) == 0 {
		return
	}

	if err := o.Gateway.AddTechnicalUser(roomID); err != nil {
		log.Printf("ERROR: Rollback failed: could not add technical user to room %s: %v", roomID, err)
		return
	}

	current, err := o.Gateway.Members(roomID)
	if err != nil {
		log.Printf("ERROR: Rollback failed: could not list members of room %s: %v", roomID, err)
	} else {
		present := make(map[string]bool, len(current))
		for _, m := range current {
			present[m.ID] = true
		}
		for _, m := range snapshot {
			if present[m.ID] {
				continue
			}
			if err := o.Gateway.AddMember(roomID, m.ID); err != nil {
				log.Printf("ERROR: Rollback failed: could not re-add member %s to room %s: %v",
					m.ID, roomID, err)
			}
		}
	}

	if err := o.Gateway.RemoveTechnicalUser(roomID); err != nil {
		log.Printf("ERROR: Rollback failed: could not remove technical user from room %s: %v",
			roomID, err)
	}
}

// rollbackSessionAndMembers is the full rollback used once membership edits
// may have happened: restore the session fields, then re-insert members
// removed from the primary room using the snapshot.
func (o *Orchestrator) rollbackSessionAndMembers(session *models.Session, prior sessionSnapshot, snapshot []chat.Member) {
	o.rollbackSessionUpdate(session, prior)
	if session.GroupID != nil {
		o.restoreRemovedMembers(*session.GroupID, snapshot)
	}
}
