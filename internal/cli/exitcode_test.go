package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hbjs97/pam-recent/internal/cli"
	"github.com/stretchr/testify/assert"
)

func TestMapExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want cli.ExitCode
	}{
		{"nil", nil, cli.ExitSuccess},
		{"general", errors.New("boom"), cli.ExitGeneral},
		{"arg count", fmt.Errorf("session.Open: %w", cli.ErrArgCount), cli.ExitArgCount},
		{"mode", fmt.Errorf("session.Open: %w", cli.ErrInvalidMode), cli.ExitInvalidMode},
		{"rhost", fmt.Errorf("session.Open: %w", cli.ErrNoRemoteHost), cli.ExitNoRemoteHost},
		{"resolve", fmt.Errorf("session.Open: %w", cli.ErrResolve), cli.ExitResolve},
		{"format", fmt.Errorf("session.Open: %w", cli.ErrAddressFormat), cli.ExitAddressFormat},
		{"open", fmt.Errorf("session.Open: %w", cli.ErrOpen), cli.ExitOpen},
		{"config", fmt.Errorf("config.Load: %w", cli.ErrConfig), cli.ExitConfigError},
		{"pam type", fmt.Errorf("cli.hook: %w", cli.ErrUnsupportedType), cli.ExitUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.MapExitCode(tt.err))
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := []cli.ExitCode{
		cli.ExitSuccess, cli.ExitGeneral, cli.ExitArgCount, cli.ExitInvalidMode,
		cli.ExitNoRemoteHost, cli.ExitResolve, cli.ExitAddressFormat, cli.ExitOpen,
		cli.ExitConfigError, cli.ExitUnsupportedType,
	}
	seen := map[cli.ExitCode]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
}
