package testutil

import (
	"context"
	"fmt"
	"strings"
)

// Response is a canned result for FakeCommander.
type Response struct {
	Output []byte
	Err    error
}

// FakeCommander answers cmdexec.Commander calls from a table keyed by the
// joined command line ("iptables -S"). The longest registered prefix of the
// command line wins; unregistered commands fail.
type FakeCommander struct {
	Responses map[string]Response
	Calls     []string
}

func NewFakeCommander() *FakeCommander {
	return &FakeCommander{Responses: make(map[string]Response)}
}

// Register stores output and err for key.
func (c *FakeCommander) Register(key string, output string, err error) {
	c.Responses[key] = Response{Output: []byte(output), Err: err}
}

func (c *FakeCommander) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	c.Calls = append(c.Calls, line)

	match, found := "", false
	for key := range c.Responses {
		if (line == key || strings.HasPrefix(line, key+" ")) && len(key) >= len(match) {
			match, found = key, true
		}
	}
	if !found {
		return nil, fmt.Errorf("FakeCommander: no response registered for %q", line)
	}
	resp := c.Responses[match]
	return resp.Output, resp.Err
}

// Called reports whether any recorded command line starts with prefix.
func (c *FakeCommander) Called(prefix string) bool {
	for _, call := range c.Calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}
