// Package assign implements the saga that transfers ownership of a
// counseling session to a consultant and re-shapes chat room membership
// accordingly. The steps run strictly in order; every step that mutates
// remote state has a compensation path driven by the membership snapshot
// and the pre-saga session fields.
package assign

import (
	"log"
	"time"

	"counselgo/backend/internal/apierr"
	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/config"
	"counselgo/backend/internal/identity"
	"counselgo/backend/internal/models"
	"counselgo/backend/internal/notify"
	"counselgo/backend/internal/storage"
)

// Orchestrator coordinates session store, chat backend and identity
// provider for an assignment.
type Orchestrator struct {
	Storage  storage.Storage
	Gateway  chat.Gateway
	Identity identity.Checker
	Notifier notify.Notifier

	// TechUsername and SystemUserID identify the backend actors that are
	// never pruned from a room.
	TechUsername string
	SystemUserID string
}

// NewOrchestrator creates an assignment orchestrator.
func NewOrchestrator(s storage.Storage, g chat.Gateway, i identity.Checker, n notify.Notifier, techUsername, systemUserID string) *Orchestrator {
	return &Orchestrator{
		Storage:      s,
		Gateway:      g,
		Identity:     i,
		Notifier:     n,
		TechUsername: techUsername,
		SystemUserID: systemUserID,
	}
}

// AssignSession assigns the session to the target consultant. First
// assignments accept a NEW enquiry and advance it to IN_PROGRESS;
// re-assignments replace the consultant of an IN_PROGRESS session. All
// other consultants who lose visibility are removed from the primary room,
// and the consultant is added to the feedback room when the consulting type
// has one.
//
// On any mid-saga failure the session fields are restored and membership
// edits are reversed using the snapshot taken before pruning; compensation
// is best effort and single-pass.
func (o *Orchestrator) AssignSession(session *models.Session, target *models.Consultant, firstAssignment bool, callerID string) error {
	if err := verifyPreconditions(session, target, firstAssignment); err != nil {
		return err
	}

	prior := takeSessionSnapshot(session)
	groupID := *session.GroupID

	// Persist the new consultant; accepting an enquiry advances the status.
	status := prior.status
	if status == models.SessionNew {
		status = models.SessionInProgress
	}
	if err := o.Storage.UpdateSessionConsultant(session, &target.ID, status); err != nil {
		return apierr.Wrap(apierr.Internal, err,
			"could not update session %d with consultant %s", session.ID, target.ID)
	}
	session.Consultant = target

	// The technical actor must be in the room before membership edits run
	// with elevated credentials.
	if err := o.Gateway.AddTechnicalUser(groupID); err != nil {
		log.Printf("ERROR: Could not add technical user to room %s. Initiating rollback. %v", groupID, err)
		o.rollbackSessionUpdate(session, prior)
		return apierr.Wrap(apierr.Internal, err, "could not add technical user to room %s", groupID)
	}

	// Re-assignment: the new consultant is not yet a room member.
	if prior.consultantID != nil {
		if err := o.Gateway.AddMember(groupID, target.ChatUserID); err != nil {
			log.Printf("ERROR: Could not add consultant %s to room %s. Initiating rollback. %v",
				target.ChatUserID, groupID, err)
			o.rollbackSessionAndMembers(session, prior, nil)
			return apierr.Wrap(apierr.Internal, err,
				"could not add consultant %s to room %s", target.ID, groupID)
		}
	}

	// Snapshot drives pruning and every later compensation.
	snapshot, err := o.Gateway.Members(groupID)
	if err != nil {
		log.Printf("ERROR: Could not list members of room %s. Initiating rollback. %v", groupID, err)
		o.rollbackSessionUpdate(session, prior)
		return apierr.Wrap(apierr.Internal, err, "could not list members of room %s", groupID)
	}

	if err := o.pruneUnauthorizedMembers(session, target, snapshot); err != nil {
		log.Printf("ERROR: Could not prune members of room %s. Initiating rollback. %v", groupID, err)
		o.rollbackSessionAndMembers(session, prior, snapshot)
		return apierr.Wrap(apierr.Internal, err, "could not prune members of room %s", groupID)
	}

	if err := o.Gateway.RemoveTechnicalUser(groupID); err != nil {
		log.Printf("ERROR: Could not remove technical user from room %s. Initiating rollback. %v", groupID, err)
		o.rollbackSessionAndMembers(session, prior, snapshot)
		return apierr.Wrap(apierr.Internal, err, "could not remove technical user from room %s", groupID)
	}

	if err := o.purgeSystemMessages(groupID); err != nil {
		log.Printf("ERROR: Could not purge system messages of room %s. Initiating rollback. %v", groupID, err)
		o.rollbackSessionAndMembers(session, prior, snapshot)
		return apierr.Wrap(apierr.Internal, err, "could not purge system messages of room %s", groupID)
	}

	if session.HasFeedbackChat() {
		if err := o.updateFeedbackRoom(session, target, prior, snapshot); err != nil {
			return err
		}
	}

	if callerID != target.ID {
		o.Notifier.NotifySessionAssigned(target, session, callerID)
	}

	return nil
}

// updateFeedbackRoom adds the new consultant to the feedback room and moves
// a previous consultant out unless they hold the feedback authority. Any
// failure here removes the freshly added consultant again and performs the
// full rollback.
func (o *Orchestrator) updateFeedbackRoom(session *models.Session, target *models.Consultant, prior sessionSnapshot, snapshot []chat.Member) error {
	feedbackID := *session.FeedbackGroupID

	if err := o.Gateway.AddMember(feedbackID, target.ChatUserID); err != nil {
		log.Printf("ERROR: Could not add consultant %s to feedback room %s. Initiating rollback. %v",
			target.ChatUserID, feedbackID, err)
		o.rollbackSessionAndMembers(session, prior, snapshot)
		return apierr.Wrap(apierr.Internal, err,
			"could not add consultant %s to feedback room %s", target.ID, feedbackID)
	}

	if prior.consultant != nil {
		if err := o.movePreviousConsultantOut(feedbackID, prior.consultant); err != nil {
			log.Printf("ERROR: Could not remove previous consultant from feedback room %s. Initiating rollback. %v",
				feedbackID, err)
			o.removeFromFeedbackRoom(feedbackID, target)
			o.rollbackSessionAndMembers(session, prior, snapshot)
			return apierr.Wrap(apierr.Internal, err,
				"could not remove previous consultant from feedback room %s", feedbackID)
		}
	}

	if err := o.purgeSystemMessages(feedbackID); err != nil {
		log.Printf("ERROR: Could not purge system messages of feedback room %s. Initiating rollback. %v",
			feedbackID, err)
		o.removeFromFeedbackRoom(feedbackID, target)
		o.rollbackSessionAndMembers(session, prior, snapshot)
		return apierr.Wrap(apierr.Internal, err,
			"could not purge system messages of feedback room %s", feedbackID)
	}

	return nil
}

// movePreviousConsultantOut removes the previous consultant from the
// feedback room through the technical actor, unless they are allowed to see
// all feedback sessions.
func (o *Orchestrator) movePreviousConsultantOut(feedbackID string, previous *models.Consultant) error {
	has, err := o.Identity.HasAuthority(previous.ID, identity.ViewAllFeedbackSessions)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	if err := o.Gateway.AddTechnicalUser(feedbackID); err != nil {
		return err
	}
	if err := o.Gateway.RemoveMember(feedbackID, previous.ChatUserID); err != nil {
		return err
	}
	return o.Gateway.RemoveTechnicalUser(feedbackID)
}

// removeFromFeedbackRoom undoes the feedback room addition during rollback.
func (o *Orchestrator) removeFromFeedbackRoom(feedbackID string, target *models.Consultant) {
	if err := o.Gateway.RemoveMember(feedbackID, target.ChatUserID); err != nil {
		log.Printf("ERROR: Rollback failed: could not remove consultant %s from feedback room %s: %v",
			target.ChatUserID, feedbackID, err)
	}
}

func (o *Orchestrator) purgeSystemMessages(roomID string) error {
	now := time.Now()
	return o.Gateway.PurgeSystemMessages(roomID, now.Add(-config.SystemMessagePurgeWindow), now)
}
