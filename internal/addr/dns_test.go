package addr_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startDNS serves a tiny zone on a random UDP port and returns its address.
func startDNS(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		q := req.Question[0]
		switch q.Name {
		case "client.example.org.":
			if q.Qtype == dns.TypeA {
				rr, _ := dns.NewRR("client.example.org. 60 IN A 203.0.113.9")
				m.Answer = append(m.Answer, rr)
			}
		case "v6only.example.org.":
			// NOERROR with no A records.
		default:
			m.Rcode = dns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

// startTruncatingDNS answers A queries over TCP only; UDP replies carry
// the TC bit and no records.
func startTruncatingDNS(t *testing.T) string {
	t.Helper()

	var (
		pc  net.PacketConn
		lis net.Listener
		err error
	)
	// UDP and TCP must share a port number.
	for i := 0; i < 10; i++ {
		pc, err = net.ListenPacket("udp", "127.0.0.1:0")
		require.NoError(t, err)
		lis, err = net.Listen("tcp", pc.LocalAddr().String())
		if err == nil {
			break
		}
		_ = pc.Close()
	}
	require.NoError(t, err)

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		if _, udp := w.RemoteAddr().(*net.UDPAddr); udp {
			m.Truncated = true
		} else {
			rr, _ := dns.NewRR("big.example.org. 60 IN A 203.0.113.10")
			m.Answer = append(m.Answer, rr)
		}
		_ = w.WriteMsg(m)
	})

	for _, srv := range []*dns.Server{
		{PacketConn: pc, Handler: handler},
		{Listener: lis, Handler: handler},
	} {
		started := make(chan struct{})
		srv.NotifyStartedFunc = func() { close(started) }
		go func() { _ = srv.ActivateAndServe() }()
		<-started
		t.Cleanup(func() { _ = srv.Shutdown() })
	}

	return pc.LocalAddr().String()
}

func TestDNSResolver_TruncatedRetriesOverTCP(t *testing.T) {
	t.Parallel()
	server := startTruncatingDNS(t)

	r, err := addr.NewDNSResolver([]string{server}, "", 2*time.Second)
	require.NoError(t, err)

	got, err := addr.Resolve(context.Background(), r, "big.example.org")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.10", got.String())
}

func TestDNSResolver_Lookup(t *testing.T) {
	t.Parallel()
	server := startDNS(t)

	r, err := addr.NewDNSResolver([]string{server}, "", 2*time.Second)
	require.NoError(t, err)

	got, err := addr.Resolve(context.Background(), r, "client.example.org")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", got.String())
}

func TestDNSResolver_NXDomainCarriesRcode(t *testing.T) {
	t.Parallel()
	server := startDNS(t)

	r, err := addr.NewDNSResolver([]string{server}, "", 2*time.Second)
	require.NoError(t, err)

	_, err = addr.Resolve(context.Background(), r, "missing.example.org")
	require.ErrorIs(t, err, addr.ErrResolve)
	assert.Contains(t, err.Error(), "NXDOMAIN")
}

func TestDNSResolver_NoARecords(t *testing.T) {
	t.Parallel()
	server := startDNS(t)

	r, err := addr.NewDNSResolver([]string{server}, "", 2*time.Second)
	require.NoError(t, err)

	_, err = addr.Resolve(context.Background(), r, "v6only.example.org")
	require.ErrorIs(t, err, addr.ErrResolve)
	assert.Contains(t, err.Error(), "no A records")
}

func TestDNSResolver_LiteralsSkipNetwork(t *testing.T) {
	t.Parallel()
	// No server is listening here; literals must never be sent.
	r, err := addr.NewDNSResolver([]string{"127.0.0.1:1"}, "", 200*time.Millisecond)
	require.NoError(t, err)

	got, err := addr.Resolve(context.Background(), r, "::ffff:198.51.100.3")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.3", got.String())
}

func TestNewDNSResolver_FromResolvConf(t *testing.T) {
	t.Parallel()
	server := startDNS(t)
	host, port, err := net.SplitHostPort(server)
	require.NoError(t, err)

	conf := filepath.Join(t.TempDir(), "resolv.conf")
	require.NoError(t, os.WriteFile(conf, []byte("nameserver "+host+"\nsearch example.org\n"), 0o644))

	r, err := addr.NewDNSResolver(nil, conf, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{net.JoinHostPort(host, "53")}, r.Servers)

	// resolv.conf cannot carry a port, so point the resolver at the test server.
	r.Servers = []string{net.JoinHostPort(host, port)}
	got, err := addr.Resolve(context.Background(), r, "client")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", got.String())
}

func TestNewDNSResolver_MissingResolvConf(t *testing.T) {
	t.Parallel()
	_, err := addr.NewDNSResolver(nil, filepath.Join(t.TempDir(), "nope"), time.Second)
	assert.Error(t, err)
}

func TestNewDNSResolver_DefaultPort(t *testing.T) {
	t.Parallel()
	r, err := addr.NewDNSResolver([]string{"192.0.2.53", "[2001:db8::53]", "192.0.2.54:5353"}, "", time.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{"192.0.2.53:53", "[2001:db8::53]:53", "192.0.2.54:5353"}, r.Servers)
}
