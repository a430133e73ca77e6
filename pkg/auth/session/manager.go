package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/artemisia-corp/storefront/pkg/redis"
)

// ErrSessionNotFound is returned when the session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

type recordStore interface {
	PutSession(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) (bool, error)
	LoadSession(ctx context.Context, sessionID string) ([]byte, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Manager persists storefront sessions in Redis. Records expire with the
// upstream token, so a resolved session always carries a usable bearer.
type Manager struct {
	store recordStore
	now   func() time.Time
	newID func() string
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Manager{
		store: client,
		now:   time.Now,
		newID: NewSessionID,
	}, nil
}

// Create stores the session under a fresh id and returns the stored copy.
func (m *Manager) Create(ctx context.Context, sess Session, ttl time.Duration) (*Session, error) {
	if strings.TrimSpace(sess.Token) == "" {
		return nil, fmt.Errorf("session token is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	now := m.now().UTC()
	sess.ID = m.newID()
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(ttl)

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	created, err := m.store.PutSession(ctx, sess.ID, payload, ttl)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("session id collision")
	}
	return &sess, nil
}

// Get loads the session stored under sessionID.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.LoadSession(ctx, sessionID)
	if errors.Is(err, redisclient.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if !sess.ExpiresAt.IsZero() && !sess.ExpiresAt.After(m.now()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Revoke deletes the session record.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.DeleteSession(ctx, sessionID)
}

// NewSessionID produces the opaque identifier handed to browsers.
func NewSessionID() string {
	return uuid.NewString()
}
