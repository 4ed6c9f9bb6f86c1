// Package adminflow holds per-administrator wizard state for the
// multi-step admin conversations.
package adminflow

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Actions of the admin wizard.
const (
	ActionAddGroup        = "add_group"
	ActionRemoveGroup     = "remove_group"
	ActionAddJoin         = "add_join"
	ActionRemoveJoin      = "remove_join"
	ActionAddMovie        = "add_movie"
	ActionRemoveMovie     = "remove_movie"
	ActionSetShareLink    = "set_codes_link"
	ActionRemoveShareLink = "remove_codes_link"
)

// Steps within a flow.
const (
	StepWaitLink   = "wait_link"
	StepWaitChatID = "wait_chatid"
	StepWaitMedia  = "wait_media"
	StepWaitMeta   = "wait_meta"
	StepWaitCode   = "wait_code"
	StepConfirm    = "confirm"
)

// State is the in-memory state of one admin conversation. It is
// process-local and discarded on cancel, completion or restart.
type State struct {
	Action   string
	Step     string
	Invite   string
	FileID   string
	FileType string
}

// sessionTTL evicts abandoned flows; an admin walking away mid-wizard
// starts clean next time.
const sessionTTL = 30 * time.Minute

// Store keeps one pending flow per administrator identity. Beginning a
// new flow silently overwrites a mid-step one.
type Store struct {
	sessions *gocache.Cache
}

// NewStore creates an admin flow store
func NewStore() *Store {
	return &Store{
		sessions: gocache.New(sessionTTL, 2*sessionTTL),
	}
}

// Begin starts (or overwrites) the flow for an administrator
func (s *Store) Begin(adminID int64, state State) {
	s.sessions.Set(key(adminID), state, gocache.DefaultExpiration)
}

// Get returns the current flow state, if any
func (s *Store) Get(adminID int64) (State, bool) {
	v, found := s.sessions.Get(key(adminID))
	if !found {
		return State{}, false
	}
	return v.(State), true
}

// Clear discards the flow for an administrator
func (s *Store) Clear(adminID int64) {
	s.sessions.Delete(key(adminID))
}

func key(adminID int64) string {
	return strconv.FormatInt(adminID, 10)
}
