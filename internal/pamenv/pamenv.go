// Package pamenv reads the PAM items pam_exec(8) exports to its helper.
package pamenv

import (
	"errors"
	"fmt"
	"os"
)

// PAM_TYPE values used by pam_exec for session stanzas.
const (
	TypeOpenSession  = "open_session"
	TypeCloseSession = "close_session"
)

// ErrUnsupportedType is returned when pam_exec runs the helper from a
// non-session stack.
var ErrUnsupportedType = errors.New("unsupported PAM_TYPE")

// Env holds the items of one PAM invocation.
type Env struct {
	Type       string
	RemoteHost string
	User       string
	Service    string
}

// Read collects the PAM items through getenv. A nil getenv means os.Getenv.
func Read(getenv func(string) string) Env {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Env{
		Type:       getenv("PAM_TYPE"),
		RemoteHost: getenv("PAM_RHOST"),
		User:       getenv("PAM_USER"),
		Service:    getenv("PAM_SERVICE"),
	}
}

// IsClose reports whether this is the close half of a session. An empty
// Type (manual run) counts as open.
func (e Env) IsClose() (bool, error) {
	switch e.Type {
	case "", TypeOpenSession:
		return false, nil
	case TypeCloseSession:
		return true, nil
	}
	return false, fmt.Errorf("pamenv: %w %q, only session stacks are supported", ErrUnsupportedType, e.Type)
}
