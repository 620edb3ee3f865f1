package assign

import (
	"counselgo/backend/internal/apierr"
	"counselgo/backend/internal/models"
)

// verifyPreconditions runs the fast-fail checks of an assignment in order.
// None of them mutates anything; each failure maps to a distinct error kind.
func verifyPreconditions(session *models.Session, target *models.Consultant, firstAssignment bool) error {
	if err := verifyNotAlreadyAssigned(session, target, firstAssignment); err != nil {
		return err
	}
	if err := verifyChatIDsPresent(session, target); err != nil {
		return err
	}
	return verifyAgencyMembership(session, target)
}

func verifyNotAlreadyAssigned(session *models.Session, target *models.Consultant, firstAssignment bool) error {
	if !session.HasConsultant() {
		return nil
	}

	if session.Status == models.SessionNew ||
		(session.Status == models.SessionInProgress && firstAssignment) {
		return apierr.New(apierr.Conflict,
			"session %d is already assigned to a consultant and cannot be accepted by consultant %s",
			session.ID, target.ID)
	}

	if session.Status == models.SessionInProgress && *session.ConsultantID == target.ID {
		return apierr.New(apierr.Conflict,
			"session %d is already assigned to consultant %s", session.ID, target.ID)
	}

	return nil
}

func verifyChatIDsPresent(session *models.Session, target *models.Consultant) error {
	if session.User == nil || session.User.ChatUserID == "" {
		return apierr.New(apierr.PreconditionFailed,
			"user %s of session %d has no chat backend account", session.UserID, session.ID)
	}
	if target.ChatUserID == "" {
		return apierr.New(apierr.PreconditionFailed,
			"consultant %s has no chat backend account", target.ID)
	}
	if session.GroupID == nil || *session.GroupID == "" {
		return apierr.New(apierr.PreconditionFailed,
			"session %d has no chat room", session.ID)
	}
	return nil
}

func verifyAgencyMembership(session *models.Session, target *models.Consultant) error {
	if !target.InAgency(session.AgencyID) {
		return apierr.New(apierr.Forbidden,
			"agency %d of session %d is not assigned to consultant %s",
			session.AgencyID, session.ID, target.ID)
	}
	return nil
}
