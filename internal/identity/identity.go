// Package identity queries the identity provider for authority decisions
// used by the peer- and feedback-visibility branches of the sagas.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"counselgo/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Authorities consulted by the orchestrators.
const (
	ViewAllPeerSessions     = "view-all-peer-sessions"
	ViewAllFeedbackSessions = "view-all-feedback-sessions"
)

// Checker answers whether a principal holds a named authority.
type Checker interface {
	HasAuthority(userID, authority string) (bool, error)
}

// Client implements Checker against the identity provider admin API,
// caching decisions in redis.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	redis   *redis.Client
	ctx     context.Context
}

// NewClient creates an identity client. rdb may be nil to disable caching.
func NewClient(baseURL, token string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		redis:   rdb,
		ctx:     context.Background(),
	}
}

// HasAuthority reports whether the user holds the authority. Decisions are
// cached; the identity provider is only asked on cache miss.
func (c *Client) HasAuthority(userID, authority string) (bool, error) {
	key := "authority:" + userID + ":" + authority

	if c.redis != nil {
		cached, err := c.redis.Get(c.ctx, key).Result()
		if err == nil {
			return cached == "1", nil
		}
		if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: Authority cache read failed for %s: %v", key, err)
		}
	}

	authorities, err := c.fetchAuthorities(userID)
	if err != nil {
		return false, err
	}

	granted := false
	for _, a := range authorities {
		if a == authority {
			granted = true
			break
		}
	}

	if c.redis != nil {
		value := "0"
		if granted {
			value = "1"
		}
		if err := c.redis.Set(c.ctx, key, value, config.AuthorityCacheTTL).Err(); err != nil {
			log.Printf("WARN: Authority cache write failed for %s: %v", key, err)
		}
	}

	return granted, nil
}

func (c *Client) fetchAuthorities(userID string) ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/admin/users/"+userID+"/authorities", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity provider: authority query for %s failed (status %d): %s",
			userID, resp.StatusCode, string(body))
	}

	var parsed struct {
		Authorities []string `json:"authorities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("identity provider: invalid authority response: %w", err)
	}
	return parsed.Authorities, nil
}
