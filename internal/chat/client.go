package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a Rocket.Chat compatible REST API. Requests run either
// with caller supplied credentials or with the technical/system accounts
// configured at construction time.
type Client struct {
	baseURL   string
	http      *http.Client
	technical Credentials
	system    Credentials
}

// NewClient creates a gateway client for the chat backend.
func NewClient(baseURL string, technical, system Credentials) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		technical: technical,
		system:    system,
	}
}

type apiResponse struct {
	Success   bool            `json:"success"`
	ErrorType string          `json:"errorType"`
	ErrorMsg  string          `json:"error"`
	Group     *groupPayload   `json:"group"`
	Members   []Member        `json:"members"`
	User      *UserInfo       `json:"user"`
	Raw       json.RawMessage `json:"-"`
}

type groupPayload struct {
	ID string `json:"_id"`
}

func (c *Client) UserInfo(creds Credentials) (*UserInfo, error) {
	path := "/api/v1/users.info?userId=" + url.QueryEscape(creds.UserID)
	resp, err := c.do(http.MethodGet, path, nil, creds)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("chat backend: empty user info response")
	}
	return resp.User, nil
}

func (c *Client) CreateRoom(name string, creds Credentials) (string, error) {
	resp, err := c.do(http.MethodPost, "/api/v1/groups.create", map[string]any{
		"name": name,
	}, creds)
	if err != nil {
		return "", err
	}
	if resp.Group == nil || resp.Group.ID == "" {
		return "", fmt.Errorf("chat backend: create room %q returned no group id", name)
	}
	return resp.Group.ID, nil
}

func (c *Client) CreateRoomAsSystemUser(name string) (string, error) {
	return c.CreateRoom(name, c.system)
}

func (c *Client) AddMember(roomID, chatUserID string) error {
	_, err := c.do(http.MethodPost, "/api/v1/groups.invite", map[string]any{
		"roomId": roomID,
		"userId": chatUserID,
	}, c.technical)
	return err
}

func (c *Client) RemoveMember(roomID, chatUserID string) error {
	_, err := c.do(http.MethodPost, "/api/v1/groups.kick", map[string]any{
		"roomId": roomID,
		"userId": chatUserID,
	}, c.technical)
	return err
}

func (c *Client) Members(roomID string) ([]Member, error) {
	path := "/api/v1/groups.members?roomId=" + url.QueryEscape(roomID)
	resp, err := c.do(http.MethodGet, path, nil, c.technical)
	if err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func (c *Client) AddTechnicalUser(roomID string) error {
	return c.AddMember(roomID, c.technical.UserID)
}

func (c *Client) RemoveTechnicalUser(roomID string) error {
	return c.RemoveMember(roomID, c.technical.UserID)
}

func (c *Client) PurgeSystemMessages(roomID string, oldest, latest time.Time) error {
	_, err := c.do(http.MethodPost, "/api/v1/rooms.cleanHistory", map[string]any{
		"roomId":    roomID,
		"oldest":    oldest.UTC().Format(time.RFC3339),
		"latest":    latest.UTC().Format(time.RFC3339),
		"onlySys":   true,
		"inclusive": true,
	}, c.technical)
	return err
}

func (c *Client) PostMessage(roomID, message string, creds Credentials) error {
	_, err := c.do(http.MethodPost, "/api/v1/chat.postMessage", map[string]any{
		"roomId": roomID,
		"text":   message,
	}, creds)
	return err
}

func (c *Client) PostMessageAsSystemUser(roomID, message string) error {
	return c.PostMessage(roomID, message, c.system)
}

func (c *Client) DeleteRoom(roomID string, creds Credentials) error {
	_, err := c.do(http.MethodPost, "/api/v1/groups.delete", map[string]any{
		"roomId": roomID,
	}, creds)
	return err
}

func (c *Client) DeleteRoomAsSystemUser(roomID string) error {
	return c.DeleteRoom(roomID, c.system)
}

func (c *Client) do(method, path string, body any, creds Credentials) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", creds.UserID)
	req.Header.Set("X-Auth-Token", creds.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var parsed apiResponse
	// Error bodies are JSON too; a decode failure only matters on success
	// responses.
	decodeErr := json.Unmarshal(respBody, &parsed)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrAuthFailed
	}
	if resp.StatusCode >= 300 || (decodeErr == nil && !parsed.Success && parsed.ErrorType != "") {
		return nil, mapAPIError(resp.StatusCode, &parsed, respBody)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("chat backend: invalid response for %s: %w", path, decodeErr)
	}
	return &parsed, nil
}

func mapAPIError(status int, parsed *apiResponse, body []byte) error {
	switch parsed.ErrorType {
	case "error-room-not-found", "error-invalid-room":
		return ErrRoomNotFound
	case "error-user-not-in-room", "error-invalid-user":
		return ErrMemberNotFound
	case "error-unauthorized", "unauthorized":
		return ErrAuthFailed
	}
	return fmt.Errorf("chat backend: api error (status %d): %s", status, string(body))
}
