package chat

import "time"

// Credentials identify an acting chat backend user for requests performed
// on their behalf.
type Credentials struct {
	UserID    string
	AuthToken string
}

// UserInfo is the chat backend's view of an account.
type UserInfo struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Member is one current member of a room, as returned by the members
// listing. Snapshots of these drive compensation and pruning.
type Member struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// Gateway wraps the remote chat backend's room, membership and message
// operations and normalizes its failures into the typed error set of this
// package.
type Gateway interface {
	// UserInfo resolves the account behind the given credentials.
	UserInfo(creds Credentials) (*UserInfo, error)

	// CreateRoom creates a private room owned by the acting user and
	// returns its external id.
	CreateRoom(name string, creds Credentials) (string, error)
	// CreateRoomAsSystemUser creates a private room owned by the system
	// user (used for feedback rooms).
	CreateRoomAsSystemUser(name string) (string, error)

	// AddMember and RemoveMember edit room membership with technical user
	// privileges.
	AddMember(roomID, chatUserID string) error
	RemoveMember(roomID, chatUserID string) error
	Members(roomID string) ([]Member, error)

	// AddTechnicalUser joins the technical user to a room so that
	// subsequent membership edits are permitted.
	AddTechnicalUser(roomID string) error
	RemoveTechnicalUser(roomID string) error

	// PurgeSystemMessages removes system messages posted inside the given
	// window from the room.
	PurgeSystemMessages(roomID string, oldest, latest time.Time) error

	PostMessage(roomID, message string, creds Credentials) error
	PostMessageAsSystemUser(roomID, message string) error

	DeleteRoom(roomID string, creds Credentials) error
	DeleteRoomAsSystemUser(roomID string) error
}
