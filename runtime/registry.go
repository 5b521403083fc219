package runtime

import (
	"sync"

	"babelchat/contract"
	"babelchat/errors"
)

type channelSet map[contract.ChannelKind]contract.Conn

// Registry is the in-memory connection directory. It maps each user to at
// most one connection per channel kind; everything else in the system goes
// through Lookup, so a user absent here is simply offline.
//
// All methods are single atomic steps under one lock, no I/O ever happens
// while it is held.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]channelSet // user ID -> kind -> connection
}

func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]channelSet)}
}

// Register claims the (user, kind) slot. A second connection for an occupied
// slot is refused with ErrAlreadyConnected; the existing connection is left
// untouched and the caller is expected to close the new one.
func (r *Registry) Register(userID string, kind contract.ChannelKind, conn contract.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userID]
	if !ok {
		set = make(channelSet)
		r.channels[userID] = set
	}
	if _, taken := set[kind]; taken {
		return errors.ErrAlreadyConnected
	}
	set[kind] = conn
	return nil
}

// Unregister frees the slot. Empty user entries are removed so the map never
// accumulates ghosts of long-gone users.
func (r *Registry) Unregister(userID string, kind contract.ChannelKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.channels[userID]
	if !ok {
		return
	}
	delete(set, kind)
	if len(set) == 0 {
		delete(r.channels, userID)
	}
}

func (r *Registry) Lookup(userID string, kind contract.ChannelKind) (contract.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.channels[userID][kind]
	return conn, ok
}

// IsOnline reports whether the user holds any connection, of either kind.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.channels[userID]) > 0
}
