// Package recent writes directives to the xt_recent (formerly ipt_recent)
// pseudo-files under /proc, one file per named list.
package recent

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"

	"golang.org/x/sys/unix"
)

const (
	// DefaultDir is the list directory on kernels >= 2.6.28.
	DefaultDir = "/proc/net/xt_recent"
	// DefaultLegacyDir is the list directory on older kernels.
	DefaultLegacyDir = "/proc/net/ipt_recent"
	// DefaultList is the list iptables uses when --name is not given.
	DefaultList = "DEFAULT"
)

// ErrInvalidMode is returned when a mode argument is neither "+" nor "-".
var ErrInvalidMode = errors.New("invalid mode argument")

// ErrOpen is returned when a list pseudo-file cannot be opened or written.
var ErrOpen = errors.New("cannot open recent list")

// Mode is the one-character marker that prefixes every directive line.
type Mode string

const (
	ModeAdd    Mode = "+"
	ModeRemove Mode = "-"
)

// ParseMode accepts exactly "+" or "-".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAdd, ModeRemove:
		return Mode(s), nil
	}
	return "", fmt.Errorf("recent.ParseMode: %w: expected %q or %q, got %q",
		ErrInvalidMode, ModeRemove, ModeAdd, s)
}

// Verb is the past-tense action used in log records.
func (m Mode) Verb() string {
	if m == ModeRemove {
		return "removed"
	}
	return "added"
}

// Directive is a single line understood by the xt_recent proc interface.
type Directive struct {
	Mode Mode
	Addr netip.Addr
}

// String renders the directive as written to the pseudo-file, newline included.
func (d Directive) String() string {
	return string(d.Mode) + d.Addr.String() + "\n"
}

// Locator picks the pseudo-file for a list. The entry under NewDir wins
// when it exists; otherwise the LegacyDir entry is returned unchecked.
type Locator struct {
	NewDir    string
	LegacyDir string

	// Exists reports whether a path exists. Nil means Accessible.
	Exists func(path string) bool
}

// NewLocator returns a Locator probing the real filesystem.
func NewLocator(newDir, legacyDir string) *Locator {
	return &Locator{NewDir: newDir, LegacyDir: legacyDir, Exists: Accessible}
}

// Path returns the pseudo-file path for list.
func (l *Locator) Path(list string) string {
	candidate := l.NewDir + "/" + list
	if l.Probe(candidate) {
		return candidate
	}
	return l.LegacyDir + "/" + list
}

// Probe runs the Locator's existence check on path.
func (l *Locator) Probe(path string) bool {
	if l.Exists == nil {
		return Accessible(path)
	}
	return l.Exists(path)
}

// Accessible mirrors access(2) with F_OK.
func Accessible(path string) bool {
	return unix.Access(path, unix.F_OK) == nil
}

// Writable mirrors access(2) with W_OK for the real uid.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// Writer delivers a directive to a pseudo-file.
type Writer interface {
	Write(path string, d Directive) error
}

// FileWriter opens the target like fopen(path, "w") and writes the line in
// one call.
type FileWriter struct{}

var _ Writer = FileWriter{}

// Write writes d to path. Open, write and close failures all wrap ErrOpen.
func (FileWriter) Write(path string, d Directive) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		cause := err
		var pe *fs.PathError
		if errors.As(err, &pe) {
			cause = pe.Err
		}
		return fmt.Errorf("recent.Write: %w: %s: %w", ErrOpen, path, cause)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("recent.Write: %w: close %s: %w", ErrOpen, path, cerr)
		}
	}()

	if _, err := f.WriteString(d.String()); err != nil {
		return fmt.Errorf("recent.Write: %w: write %s: %w", ErrOpen, path, err)
	}
	return nil
}
