package stdio

import (
	"os/user"
)

// UserProvider names the local principal on the other end of the pipe. Stdio
// carries no credentials; the ID only labels log records.
type UserProvider interface {
	CurrentUserID() (string, error)
}

// OSUserProvider resolves the user ID using the operating system's current user.
// The returned ID is user.Username when available; falling back to user.Uid.
type OSUserProvider struct{}

func (OSUserProvider) CurrentUserID() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	if u.Username != "" {
		return u.Username, nil
	}
	return u.Uid, nil
}

// StaticUser is a UserProvider that always returns the same ID.
type StaticUser string

func (u StaticUser) CurrentUserID() (string, error) { return string(u), nil }
