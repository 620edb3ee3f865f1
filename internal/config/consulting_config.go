package config

import "time"

const (
	// SystemMessagePurgeWindow is the age limit for system messages removed
	// from a room after membership edits.
	SystemMessagePurgeWindow = 24 * time.Hour

	// NotificationChannel is the redis pub/sub channel for consultant
	// notifications.
	NotificationChannel = "notifications"

	// AuthorityCacheTTL bounds how long an identity provider authority
	// decision is cached in redis.
	AuthorityCacheTTL = 5 * time.Minute
)

// ConsultingTypeSettings drives the per-consulting-type branches of the
// orchestrators.
type ConsultingTypeSettings struct {
	// FeedbackChat enables the secondary consultant-to-consultant room.
	FeedbackChat bool
	// RestrictedPeerVisibility limits team sessions to consultants holding
	// the view-all-peer-sessions authority.
	RestrictedPeerVisibility bool
	// WelcomeMessage is posted by the system user after the enquiry
	// message. ${username} is substituted. Empty disables the message.
	WelcomeMessage string
}

var consultingTypes = map[string]ConsultingTypeSettings{
	"addiction": {
		WelcomeMessage: "Hello ${username}, thanks for reaching out. A consultant will reply to you shortly.",
	},
	"u25": {
		FeedbackChat:             true,
		RestrictedPeerVisibility: true,
		WelcomeMessage:           "Hi ${username}, welcome! One of our consultants will get back to you soon.",
	},
	"pregnancy": {
		WelcomeMessage: "Hello ${username}, a consultant will take care of your request as soon as possible.",
	},
	"debt": {},
	"parenting": {
		WelcomeMessage: "Hello ${username}, thanks for your message. We will reply shortly.",
	},
}

// SettingsFor returns the settings of the given consulting type. Unknown
// types get zero-value settings (no feedback chat, no welcome message).
func SettingsFor(consultingType string) ConsultingTypeSettings {
	return consultingTypes[consultingType]
}
