// Package snippet generates the configuration pam-recent depends on: the
// pam.d session line that runs it via pam_exec, and an iptables chain that
// rate-limits new connections with the recent match.
package snippet
