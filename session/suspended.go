package session

import (
	"sync"
	"time"
)

// suspendedEntry is one disconnected-but-reconnectable player: it survives
// until either a matching handshake reclaims it or its deadline passes.
type suspendedEntry struct {
	PlayerID PlayerID
	Token    string
	Deadline time.Time
}

// SuspendedPlayers is the reconnect-window registry: a reader exit with a
// session token appends here instead of immediately freeing the player id.
// Guarded by a mutex rather than a channel since both readers (on exit) and
// new handshakes (on connect) need synchronous, not polled, access.
type SuspendedPlayers struct {
	mu      sync.Mutex
	entries []suspendedEntry
}

// NewSuspendedPlayers returns an empty registry.
func NewSuspendedPlayers() *SuspendedPlayers { return &SuspendedPlayers{} }

// Suspend adds id/token to the registry with a grace window ending at now+ttl.
func (s *SuspendedPlayers) Suspend(id PlayerID, token string, now time.Time, ttl time.Duration) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, suspendedEntry{PlayerID: id, Token: token, Deadline: now.Add(ttl)})
}

// Reclaim pops and returns the suspended player id matching token, if it
// exists and hasn't expired as of now. Expired entries encountered along
// the way are dropped.
func (s *SuspendedPlayers) Reclaim(token string, now time.Time) (PlayerID, bool) {
	if token == "" {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.entries[:0]
	var found PlayerID
	ok := false
	for _, e := range s.entries {
		switch {
		case now.After(e.Deadline):
			continue // expired, drop
		case e.Token == token && !ok:
			found = e.PlayerID
			ok = true
		default:
			live = append(live, e)
		}
	}
	s.entries = live
	return found, ok
}

// ExpireBefore removes (and returns) every entry whose deadline has passed
// as of now, for the game task to turn into PlayerQuit.
func (s *SuspendedPlayers) ExpireBefore(now time.Time) []PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.entries[:0]
	var expired []PlayerID
	for _, e := range s.entries {
		if now.After(e.Deadline) {
			expired = append(expired, e.PlayerID)
		} else {
			live = append(live, e)
		}
	}
	s.entries = live
	return expired
}
