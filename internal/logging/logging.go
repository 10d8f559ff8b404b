// Package logging builds the logrus logger used by every command. Records
// go to stderr and, unless disabled, to syslog, which is where PAM modules
// are expected to report.
package logging

import (
	"fmt"
	"io"
	"log/syslog"

	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/sirupsen/logrus"
	lsyslog "github.com/sirupsen/logrus/hooks/syslog"
)

var facilities = map[string]syslog.Priority{
	"auth":     syslog.LOG_AUTH,
	"authpriv": syslog.LOG_AUTHPRIV,
	"daemon":   syslog.LOG_DAEMON,
	"user":     syslog.LOG_USER,
	"local0":   syslog.LOG_LOCAL0,
	"local1":   syslog.LOG_LOCAL1,
	"local2":   syslog.LOG_LOCAL2,
	"local3":   syslog.LOG_LOCAL3,
	"local4":   syslog.LOG_LOCAL4,
	"local5":   syslog.LOG_LOCAL5,
	"local6":   syslog.LOG_LOCAL6,
	"local7":   syslog.LOG_LOCAL7,
}

// Facility maps a facility name to its syslog priority.
func Facility(name string) (syslog.Priority, error) {
	p, ok := facilities[name]
	if !ok {
		return 0, fmt.Errorf("logging.Facility: unknown facility %q", name)
	}
	return p, nil
}

// HookFactory connects to syslog. Tests swap it out.
type HookFactory func(priority syslog.Priority, tag string) (logrus.Hook, error)

// DialSyslog connects to the local syslog daemon.
func DialSyslog(priority syslog.Priority, tag string) (logrus.Hook, error) {
	return lsyslog.NewSyslogHook("", "", priority, tag)
}

// New returns a logger writing text records to w. When syslog is enabled
// and dial is non-nil, a syslog hook is attached; a dial failure is logged
// as a warning and the logger is still returned.
func New(cfg config.Log, syslogOn bool, w io.Writer, dial HookFactory) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})

	if !syslogOn || dial == nil {
		return log, nil
	}
	priority, err := Facility(cfg.Facility)
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}
	hook, err := dial(priority|syslog.LOG_INFO, cfg.Tag)
	if err != nil {
		log.WithError(err).Warn("syslog unavailable, logging to stderr only")
		return log, nil
	}
	log.AddHook(hook)
	return log, nil
}
