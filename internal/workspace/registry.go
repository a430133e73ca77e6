package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/artemisia-corp/storefront/internal/checkout"
	"github.com/artemisia-corp/storefront/pkg/auth/session"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// Deps are shared by every workspace the registry creates.
type Deps struct {
	Gateway   Gateway
	Addresses AddressLister
	Checkout  checkout.Options
	Logger    *logger.Logger
}

// Registry holds one workspace per live session in memory.
type Registry struct {
	deps  Deps
	mu    sync.Mutex
	items map[string]*Workspace
}

// NewRegistry validates the shared dependencies.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Gateway == nil {
		return nil, fmt.Errorf("workspace gateway is required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address lister is required")
	}
	return &Registry{deps: deps, items: make(map[string]*Workspace)}, nil
}

// Get returns the session's workspace, creating it on first use.
func (r *Registry) Get(sess *session.Session) (*Workspace, error) {
	if sess == nil || sess.ID == "" {
		return nil, fmt.Errorf("session is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.items[sess.ID]; ok {
		return ws, nil
	}
	ws, err := newWorkspace(r.deps, *sess)
	if err != nil {
		return nil, err
	}
	r.items[sess.ID] = ws
	return ws, nil
}

// Drop closes and forgets the session's workspace.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	ws, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()
	if ok {
		ws.Close()
	}
}

// Sweep drops workspaces whose session expired before now.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Workspace
	for id, ws := range r.items {
		if exp := ws.ExpiresAt(); !exp.IsZero() && !exp.After(now) {
			expired = append(expired, ws)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()
	for _, ws := range expired {
		ws.Close()
	}
	return len(expired)
}

// CloseAll stops every workspace; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, ws := range items {
		ws.Close()
	}
}

// Len reports how many workspaces are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
