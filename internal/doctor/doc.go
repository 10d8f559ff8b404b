// Package doctor checks that the host is ready for pam-recent: the recent
// proc directory, the target list and its permissions, the iptables rules
// that feed the list, and name resolution.
package doctor
