// Package enquiry implements the saga that creates the conversation for a
// brand-new counseling session: it provisions the private chat room (and,
// depending on the consulting type, a feedback room), seeds the first
// messages and links the rooms to the persisted session. Failures after
// room creation trigger a best-effort compensation that deletes whatever
// was provisioned.
package enquiry

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"counselgo/backend/internal/apierr"
	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/config"
	"counselgo/backend/internal/identity"
	"counselgo/backend/internal/models"
	"counselgo/backend/internal/notify"
	"counselgo/backend/internal/storage"

	"github.com/google/uuid"
)

// Orchestrator coordinates session store, chat backend and identity
// provider for enquiry creation.
type Orchestrator struct {
	Storage  storage.Storage
	Gateway  chat.Gateway
	Identity identity.Checker
	Notifier notify.Notifier

	// SystemUserID is added to every created room so the backend can post
	// system messages.
	SystemUserID string
}

// NewOrchestrator creates an enquiry orchestrator.
func NewOrchestrator(s storage.Storage, g chat.Gateway, i identity.Checker, n notify.Notifier, systemUserID string) *Orchestrator {
	return &Orchestrator{
		Storage:      s,
		Gateway:      g,
		Identity:     i,
		Notifier:     n,
		SystemUserID: systemUserID,
	}
}

// CreateEnquiry provisions the chat rooms for the session and stores the
// enquiry message. The caller must own the session and must not have
// written an enquiry yet; a second call is rejected with Conflict, not
// treated as a no-op.
func (o *Orchestrator) CreateEnquiry(user *models.User, sessionID uint, message string, creds chat.Credentials) error {
	// The acting chat account must belong to the caller.
	info, err := o.Gateway.UserInfo(creds)
	if err != nil {
		return apierr.Wrap(apierr.Internal, err, "could not resolve chat user for enquiry")
	}
	if !usernamesMatch(info.Username, user.Username) {
		return apierr.New(apierr.BadRequest,
			"user %s does not match chat account %s", user.Username, creds.UserID)
	}

	session, err := o.Storage.GetSessionByID(sessionID)
	if err != nil {
		return apierr.Wrap(apierr.Internal, err, "could not load session %d", sessionID)
	}
	if session == nil || session.UserID != user.ID {
		return apierr.New(apierr.BadRequest, "session %d not found for user %s", sessionID, user.ID)
	}
	if session.EnquiryMessageDate != nil {
		return apierr.New(apierr.Conflict, "enquiry message already written for session %d", sessionID)
	}

	settings := config.SettingsFor(session.ConsultingType)
	consultants, err := o.Storage.FindConsultantsByAgencyID(session.AgencyID)
	if err != nil {
		return apierr.Wrap(apierr.Internal, err,
			"could not load consultants of agency %d", session.AgencyID)
	}

	// Compensation boundary: from here on created resources are recorded
	// and deleted again on failure.
	groupID, err := o.Gateway.CreateRoom(roomName(session), creds)
	if err != nil {
		return apierr.Wrap(apierr.Internal, err, "could not create room for session %d", sessionID)
	}
	comp := compensation{session: session, groupID: groupID, creds: creds}

	if err := o.populatePrimaryRoom(groupID, consultants); err != nil {
		o.compensate(comp)
		return apierr.Wrap(apierr.Internal, err, "could not prepare room %s", groupID)
	}

	var feedbackGroupID *string
	if settings.FeedbackChat {
		id, err := o.createFeedbackRoom(session, consultants)
		if id != "" {
			comp.feedbackGroupID = id
			feedbackGroupID = &id
		}
		if err != nil {
			o.compensate(comp)
			return apierr.Wrap(apierr.Internal, err,
				"could not create feedback room for session %d", sessionID)
		}
	}

	if user.ChatUserID == "" {
		if err := o.Storage.SaveUserChatID(user, info.ID); err != nil {
			o.compensate(comp)
			return apierr.Wrap(apierr.Internal, err, "could not save chat user id for user %s", user.ID)
		}
	}

	if err := o.Gateway.PostMessage(groupID, message, creds); err != nil {
		o.compensate(comp)
		return apierr.Wrap(apierr.Internal, err, "could not post enquiry message to room %s", groupID)
	}
	if settings.WelcomeMessage != "" {
		welcome := strings.ReplaceAll(settings.WelcomeMessage, "${username}", user.Username)
		if err := o.Gateway.PostMessageAsSystemUser(groupID, welcome); err != nil {
			o.compensate(comp)
			return apierr.Wrap(apierr.Internal, err, "could not post welcome message to room %s", groupID)
		}
	}

	if err := o.Storage.UpdateSessionEnquiry(session, groupID, feedbackGroupID, time.Now()); err != nil {
		o.compensate(comp)
		return apierr.Wrap(apierr.Internal, err, "could not store enquiry data for session %d", sessionID)
	}

	o.Notifier.NotifyNewEnquiry(session, consultants)

	return nil
}

// populatePrimaryRoom adds the system actor and every agency consultant to
// the freshly created room and removes the join noise.
func (o *Orchestrator) populatePrimaryRoom(groupID string, consultants []models.Consultant) error {
	if err := o.Gateway.AddMember(groupID, o.SystemUserID); err != nil {
		return err
	}
	for i := range consultants {
		if err := o.Gateway.AddMember(groupID, consultants[i].ChatUserID); err != nil {
			return err
		}
	}
	return o.purgeSystemMessages(groupID)
}

// createFeedbackRoom provisions the consultant-to-consultant room owned by
// the system actor. Only consultants holding the feedback authority join.
// The returned id is non-empty as soon as the room exists, even when a
// later sub-step failed, so the caller can compensate it.
func (o *Orchestrator) createFeedbackRoom(session *models.Session, consultants []models.Consultant) (string, error) {
	feedbackID, err := o.Gateway.CreateRoomAsSystemUser(feedbackRoomName(session))
	if err != nil {
		return "", err
	}

	if err := o.Gateway.AddMember(feedbackID, o.SystemUserID); err != nil {
		return feedbackID, err
	}

	for i := range consultants {
		has, err := o.Identity.HasAuthority(consultants[i].ID, identity.ViewAllFeedbackSessions)
		if err != nil {
			return feedbackID, err
		}
		if !has {
			continue
		}
		if err := o.Gateway.AddMember(feedbackID, consultants[i].ChatUserID); err != nil {
			return feedbackID, err
		}
	}

	if err := o.purgeSystemMessages(feedbackID); err != nil {
		return feedbackID, err
	}

	return feedbackID, nil
}

func (o *Orchestrator) purgeSystemMessages(roomID string) error {
	now := time.Now()
	return o.Gateway.PurgeSystemMessages(roomID, now.Add(-config.SystemMessagePurgeWindow), now)
}

func roomName(session *models.Session) string {
	return fmt.Sprintf("session-%d-%s", session.ID, shortID())
}

func feedbackRoomName(session *models.Session) string {
	return fmt.Sprintf("feedback-%d-%s", session.ID, shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// usernamesMatch compares identity provider and chat backend usernames.
// Both sides may arrive percent-encoded and with different casing.
func usernamesMatch(a, b string) bool {
	return normalizeUsername(a) == normalizeUsername(b)
}

func normalizeUsername(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		s = decoded
	}
	return strings.ToLower(s)
}
