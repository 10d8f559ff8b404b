package addr_test

import (
	"context"
	"net/netip"
	"testing"

	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/hbjs97/pam-recent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedIPv4(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		host   string
		want   string
		wantOK bool
	}{
		{"compat", "::203.0.113.5", "203.0.113.5", true},
		{"mapped", "::ffff:203.0.113.5", "203.0.113.5", true},
		{"mapped upper", "::FFFF:203.0.113.5", "203.0.113.5", true},
		{"long compat", "0:0:0:0:0:0:203.0.113.5", "203.0.113.5", true},
		{"long mapped", "0:0:0:0:0:ffff:203.0.113.5", "203.0.113.5", true},
		{"long mapped mixed case", "0:0:0:0:0:FfFf:203.0.113.5", "203.0.113.5", true},
		{"loopback", "::1", "1", true},
		{"long prefix only", "0:0:0:0:0:1:2", "1:2", true},
		{"plain v6", "2001:db8::1", "", false},
		{"hostname", "client.example.org", "", false},
		{"short zero run", "0:0:0:0:203.0.113.5", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := addr.EmbeddedIPv4(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Literal(t *testing.T) {
	t.Parallel()
	got, err := addr.Resolve(context.Background(), &addr.SystemResolver{}, "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.5", got.String())
}

func TestResolve_MixedNotationFallback(t *testing.T) {
	t.Parallel()
	for _, host := range []string{
		"::ffff:203.0.113.5",
		"::203.0.113.5",
		"0:0:0:0:0:ffff:203.0.113.5",
		"0:0:0:0:0:0:203.0.113.5",
	} {
		t.Run(host, func(t *testing.T) {
			got, err := addr.Resolve(context.Background(), &addr.SystemResolver{}, host)
			require.NoError(t, err)
			assert.Equal(t, "203.0.113.5", got.String())
		})
	}
}

func TestResolve_FallbackOnlyAfterFailure(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver().Register("::ffff:10.0.0.1", "192.0.2.44")

	got, err := addr.Resolve(context.Background(), r, "::ffff:10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.44", got.String())
	assert.Equal(t, []string{"::ffff:10.0.0.1"}, r.Queries)
}

func TestResolve_FallbackQueriesExtractedCandidate(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver().Register("203.0.113.5", "203.0.113.5")

	got, err := addr.Resolve(context.Background(), r, "0:0:0:0:0:ffff:203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.5", got.String())
	assert.Equal(t, []string{"0:0:0:0:0:ffff:203.0.113.5", "203.0.113.5"}, r.Queries)
}

func TestResolve_NoFallbackWithoutColon(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver()

	_, err := addr.Resolve(context.Background(), r, "unknown.example.org")
	require.ErrorIs(t, err, addr.ErrResolve)
	assert.Contains(t, err.Error(), "unknown.example.org")
	assert.Contains(t, err.Error(), "no such host")
	assert.Len(t, r.Queries, 1)
}

func TestResolve_UnmatchedIPv6Fails(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver()

	_, err := addr.Resolve(context.Background(), r, "2001:db8::1")
	require.ErrorIs(t, err, addr.ErrResolve)
	assert.Len(t, r.Queries, 1)
}

func TestResolve_PlainIPv6LiteralFails(t *testing.T) {
	t.Parallel()
	_, err := addr.Resolve(context.Background(), &addr.SystemResolver{}, "2001:db8::1")
	assert.ErrorIs(t, err, addr.ErrResolve)
}

func TestResolve_FirstAddressWins(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver().Register("multi.example.org", "192.0.2.1", "192.0.2.2")

	got, err := addr.Resolve(context.Background(), r, "multi.example.org")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("192.0.2.1"), got)
}

func TestResolve_NonIPv4AnswerIsFormatError(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver().Register("v6.example.org", "2001:db8::5")

	_, err := addr.Resolve(context.Background(), r, "v6.example.org")
	require.ErrorIs(t, err, addr.ErrAddressFormat)
	assert.NotErrorIs(t, err, addr.ErrResolve)
}

func TestResolve_MappedAnswerIsUnmapped(t *testing.T) {
	t.Parallel()
	r := testutil.NewFakeResolver().Register("mapped.example.org", "::ffff:192.0.2.9")

	got, err := addr.Resolve(context.Background(), r, "mapped.example.org")
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.9", got.String())
}
