// Package session implements the PAM session hook: on session open the
// client's address is added to or removed from an xt_recent list, on
// session close nothing happens.
package session
