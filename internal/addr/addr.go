// Package addr turns the remote host reported by PAM into the single IPv4
// address the xt_recent tables understand.
package addr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"
)

// ErrResolve is returned when no IPv4 address could be found for a host,
// including after the mixed-notation fallback.
var ErrResolve = errors.New("could not lookup address")

// ErrAddressFormat is returned when the resolved address has no IPv4
// presentation form.
var ErrAddressFormat = errors.New("address conversion error")

// Resolver performs forward lookups restricted to IPv4.
type Resolver interface {
	LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error)
}

// Resolve looks up host and returns its first IPv4 address. When the
// lookup fails and host looks like IPv6 text, the embedded IPv4 part is
// extracted (see EmbeddedIPv4) and looked up once more.
func Resolve(ctx context.Context, r Resolver, host string) (netip.Addr, error) {
	addrs, err := r.LookupIPv4(ctx, host)
	if err != nil && strings.Contains(host, ":") {
		if candidate, ok := EmbeddedIPv4(host); ok {
			addrs, err = r.LookupIPv4(ctx, candidate)
		}
	}
	if err == nil && len(addrs) == 0 {
		err = errors.New("no addresses returned")
	}
	if err != nil {
		return netip.Addr{}, fmt.Errorf("addr.Resolve: %w for %s: %w", ErrResolve, host, err)
	}

	first := addrs[0].Unmap()
	if !first.Is4() {
		return netip.Addr{}, fmt.Errorf("addr.Resolve: %w: %q is not an IPv4 address", ErrAddressFormat, addrs[0])
	}
	return first, nil
}

// EmbeddedIPv4 extracts the IPv4 part of the RFC 1884 mixed forms
// "::a.b.c.d", "::ffff:a.b.c.d", "0:0:0:0:0:0:a.b.c.d" and
// "0:0:0:0:0:ffff:a.b.c.d". The remainder is not validated; it is only a
// candidate for a second lookup.
func EmbeddedIPv4(host string) (string, bool) {
	switch {
	case strings.HasPrefix(host, "::"):
		rest := host[2:]
		return trimFoldPrefix(rest, "ffff:"), true
	case hasFoldPrefix(host, "0:0:0:0:0:"):
		rest := host[len("0:0:0:0:0:"):]
		if strings.HasPrefix(rest, "0:") {
			return rest[2:], true
		}
		return trimFoldPrefix(rest, "ffff:"), true
	}
	return "", false
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func trimFoldPrefix(s, prefix string) string {
	if hasFoldPrefix(s, prefix) {
		return s[len(prefix):]
	}
	return s
}

// literalIPv4 handles hosts that are already IP text. Like gethostbyname,
// IPv6 literals (even IPv4-mapped ones) are rejected so that Resolve's
// fallback gets a chance.
func literalIPv4(host string) (addrs []netip.Addr, literal bool, err error) {
	ip, perr := netip.ParseAddr(host)
	if perr != nil {
		return nil, false, nil
	}
	if !ip.Is4() {
		return nil, true, fmt.Errorf("lookup %s: not an IPv4 address", host)
	}
	return []netip.Addr{ip}, true, nil
}

// SystemResolver uses the Go resolver, which honours /etc/hosts,
// nsswitch.conf and resolv.conf.
type SystemResolver struct {
	Resolver *net.Resolver
	Timeout  time.Duration
}

var _ Resolver = (*SystemResolver)(nil)

// LookupIPv4 resolves host to its IPv4 addresses.
func (s *SystemResolver) LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error) {
	if addrs, ok, err := literalIPv4(host); ok {
		return addrs, err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	r := s.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	found, err := r.LookupNetIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}
	var out []netip.Addr
	for _, a := range found {
		if a = a.Unmap(); a.Is4() {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("lookup %s: no IPv4 address", host)
	}
	return out, nil
}
