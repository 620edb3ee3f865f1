package assign

import (
	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/config"
	"counselgo/backend/internal/identity"
	"counselgo/backend/internal/models"
)

// policyKey selects the removal predicate for membership pruning.
type policyKey struct {
	teamSession          bool
	restrictedVisibility bool
}

// removalPredicate decides whether a candidate room member (already known
// not to be the owning user, the new consultant or one of the backend
// actors) must be removed from the primary room.
type removalPredicate func(o *Orchestrator, member chat.Member) (bool, error)

var removalPolicies = map[policyKey]removalPredicate{
	// Single-consultant sessions: every other member loses visibility.
	{teamSession: false, restrictedVisibility: false}: removeAlways,
	{teamSession: false, restrictedVisibility: true}:  removeAlways,
	// Team sessions stay visible to the whole team.
	{teamSession: true, restrictedVisibility: false}: keepAll,
	// Restricted consulting types additionally require the peer-session
	// authority to stay.
	{teamSession: true, restrictedVisibility: true}: removeWithoutPeerAuthority,
}

func removalPolicyFor(session *models.Session) removalPredicate {
	settings := config.SettingsFor(session.ConsultingType)
	return removalPolicies[policyKey{
		teamSession:          session.TeamSession,
		restrictedVisibility: settings.RestrictedPeerVisibility,
	}]
}

func removeAlways(_ *Orchestrator, _ chat.Member) (bool, error) { return true, nil }

func keepAll(_ *Orchestrator, _ chat.Member) (bool, error) { return false, nil }

// removeWithoutPeerAuthority removes a member only when a consultant record
// exists for it and that consultant lacks the view-all-peer-sessions
// authority. Members without a consultant record stay.
func removeWithoutPeerAuthority(o *Orchestrator, member chat.Member) (bool, error) {
	consultant, err := o.Storage.GetConsultantByChatUserID(member.ID)
	if err != nil {
		return false, err
	}
	if consultant == nil {
		return false, nil
	}
	has, err := o.Identity.HasAuthority(consultant.ID, identity.ViewAllPeerSessions)
	if err != nil {
		return false, err
	}
	return !has, nil
}

// pruneUnauthorizedMembers removes every member of the snapshot who should
// no longer see the session. The first failed removal or authority lookup
// aborts the pruning; the caller performs the full rollback.
func (o *Orchestrator) pruneUnauthorizedMembers(session *models.Session, target *models.Consultant, snapshot []chat.Member) error {
	policy := removalPolicyFor(session)

	for _, member := range snapshot {
		if o.isProtectedMember(session, target, member) {
			continue
		}
		remove, err := policy(o, member)
		if err != nil {
			return err
		}
		if remove {
			if err := o.Gateway.RemoveMember(*session.GroupID, member.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// isProtectedMember reports whether a member may never be pruned: the
// owning user, the consultant being assigned, the technical actor and the
// system actor.
func (o *Orchestrator) isProtectedMember(session *models.Session, target *models.Consultant, member chat.Member) bool {
	return member.ID == session.User.ChatUserID ||
		member.ID == target.ChatUserID ||
		member.Username == o.TechUsername ||
		member.ID == o.SystemUserID
}
