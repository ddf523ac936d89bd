package sessions

import "github.com/jrsteele09/go-zonasi-client/users"

// Persisted is the durable form of the session. It survives process restarts.
type Persisted struct {
	AccessToken string      `json:"access_token,omitempty"`
	User        *users.User `json:"user,omitempty"`
	Exp         *int64      `json:"exp,omitempty"`        // Token expiry, epoch milliseconds
	RefreshAt   *int64      `json:"refresh_at,omitempty"` // When the pending proactive refresh fires, epoch milliseconds
	Refreshing  bool        `json:"refreshing"`
}

// Repo defines durable storage for the session.
type Repo interface {
	// Load returns the stored session, or an error wrapping errors.ErrNotFound when there is none
	Load() (*Persisted, error)

	// Save replaces the stored session
	Save(p *Persisted) error

	// Clear removes the stored session. Clearing an empty store is not an error
	Clear() error
}
