package addr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DNSResolver queries A records directly, bypassing NSS. It is useful on
// hosts where /etc/hosts or nscd would give stale answers.
type DNSResolver struct {
	// Servers are host:port pairs tried in order.
	Servers []string
	Timeout time.Duration

	conf   *dns.ClientConfig
	client *dns.Client
	tcp    *dns.Client
}

var _ Resolver = (*DNSResolver)(nil)

// NewDNSResolver uses servers when given, otherwise the nameservers,
// search list and ndots of the resolv.conf at resolvConf.
func NewDNSResolver(servers []string, resolvConf string, timeout time.Duration) (*DNSResolver, error) {
	r := &DNSResolver{Timeout: timeout}
	if len(servers) == 0 {
		conf, err := dns.ClientConfigFromFile(resolvConf)
		if err != nil {
			return nil, fmt.Errorf("addr.NewDNSResolver: %w", err)
		}
		if len(conf.Servers) == 0 {
			return nil, fmt.Errorf("addr.NewDNSResolver: no nameservers in %s", resolvConf)
		}
		r.conf = conf
		for _, s := range conf.Servers {
			r.Servers = append(r.Servers, net.JoinHostPort(s, conf.Port))
		}
	} else {
		for _, s := range servers {
			r.Servers = append(r.Servers, withDefaultPort(s))
		}
	}
	r.client = &dns.Client{Net: "udp", Timeout: timeout}
	r.tcp = &dns.Client{Net: "tcp", Timeout: timeout}
	return r, nil
}

func withDefaultPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}

// names returns the query names for host, applying the resolv.conf
// search list when one was loaded.
func (r *DNSResolver) names(host string) []string {
	if r.conf != nil {
		return r.conf.NameList(host)
	}
	return []string{dns.Fqdn(host)}
}

// LookupIPv4 resolves host through the configured nameservers.
func (r *DNSResolver) LookupIPv4(ctx context.Context, host string) ([]netip.Addr, error) {
	if addrs, ok, err := literalIPv4(host); ok {
		return addrs, err
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var lastErr error
	for _, name := range r.names(host) {
		addrs, err := r.query(ctx, name)
		if err == nil {
			return addrs, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("lookup %s: %w", host, lastErr)
}

// query asks each server in turn until one gives an authoritative answer.
// NXDOMAIN and empty answers are final; transport errors move on to the
// next server. A truncated UDP answer is repeated over TCP.
func (r *DNSResolver) query(ctx context.Context, name string) ([]netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(name, dns.TypeA)

	var lastErr error = errors.New("no nameservers")
	for _, server := range r.Servers {
		resp, _, err := r.client.ExchangeContext(ctx, m, server)
		if err == nil && resp.Truncated {
			resp, _, err = r.tcp.ExchangeContext(ctx, m, server)
		}
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Rcode != dns.RcodeSuccess {
			return nil, fmt.Errorf("%s: %s", name, dns.RcodeToString[resp.Rcode])
		}
		var out []netip.Addr
		for _, rr := range resp.Answer {
			a, ok := rr.(*dns.A)
			if !ok {
				continue
			}
			if ip, ok := netip.AddrFromSlice(a.A.To4()); ok {
				out = append(out, ip)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%s: no A records", name)
		}
		return out, nil
	}
	return nil, lastErr
}
