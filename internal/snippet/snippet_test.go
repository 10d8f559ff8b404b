package snippet_test

import (
	"strings"
	"testing"

	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/hbjs97/pam-recent/internal/snippet"
	"github.com/stretchr/testify/assert"
)

func TestPAMStanza_WithList(t *testing.T) {
	out := snippet.PAMStanza("/usr/sbin/pam-recent", recent.ModeRemove, "MYLIMIT")
	assert.Equal(t, "session optional pam_exec.so quiet /usr/sbin/pam-recent - MYLIMIT\n", out)
}

func TestPAMStanza_DefaultList(t *testing.T) {
	out := snippet.PAMStanza("", recent.ModeAdd, "")
	assert.Equal(t, "session optional pam_exec.so quiet "+snippet.DefaultBinary+" +\n", out)
}

func TestIptablesRules_Defaults(t *testing.T) {
	out := snippet.IptablesRules(snippet.IptablesOptions{})
	assert.Contains(t, out, "iptables -N limited\n")
	assert.Contains(t, out, "--dport 22 ")
	assert.Contains(t, out, "iptables -A limited -m recent --name DEFAULT --rcheck --hitcount 2 --seconds 60 -j DROP\n")
	assert.Contains(t, out, "iptables -A limited -m recent --name DEFAULT --set -j ACCEPT\n")
}

func TestIptablesRules_MultiplePorts(t *testing.T) {
	out := snippet.IptablesRules(snippet.IptablesOptions{
		Chain:    "sshlimit",
		List:     "MYLIMIT",
		Ports:    []int{22, 21},
		HitCount: 4,
		Seconds:  300,
	})
	assert.Equal(t, 2, strings.Count(out, "-j sshlimit\n"))
	assert.Contains(t, out, "--dport 21 ")
	assert.Contains(t, out, "--name MYLIMIT --rcheck --hitcount 4 --seconds 300 -j DROP")
	// The check rule has to precede the set rule.
	assert.Less(t, strings.Index(out, "--rcheck"), strings.Index(out, "--set"))
}
