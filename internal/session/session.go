package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/sirupsen/logrus"
)

// ErrArgCount는 모듈 인자가 1개 또는 2개가 아닐 때 반환된다.
var ErrArgCount = errors.New("expected 1 or 2 arguments")

// ErrNoRemoteHost는 PAM_RHOST가 없을 때 (네트워크 로그인이 아닐 때) 반환된다.
var ErrNoRemoteHost = errors.New("no PAM_RHOST, not a network login")

// Hook은 세션 시작 시 xt_recent 목록에서 클라이언트 주소를 추가/삭제한다.
type Hook struct {
	Config   *config.Config
	Resolver addr.Resolver
	Locator  *recent.Locator
	Writer   recent.Writer
	Log      logrus.FieldLogger
}

// New는 실제 /proc 파일을 사용하는 Hook을 생성한다.
func New(cfg *config.Config, r addr.Resolver, log logrus.FieldLogger) *Hook {
	return &Hook{
		Config:   cfg,
		Resolver: r,
		Locator:  recent.NewLocator(cfg.ProcDir, cfg.LegacyProcDir),
		Writer:   recent.FileWriter{},
		Log:      log,
	}
}

// Open은 세션 시작 처리다. args는 모드("+" 또는 "-")와 선택적 목록 이름이다.
// 실패 시 어떤 쓰기도 일어나지 않는다.
func (h *Hook) Open(ctx context.Context, args []string, remoteHost string) error {
	if len(args) < 1 || len(args) > 2 {
		h.Log.WithField("argc", len(args)).Errorf("expected 1 or 2 arguments but got %d", len(args))
		return fmt.Errorf("session.Open: %w, got %d", ErrArgCount, len(args))
	}

	mode, err := recent.ParseMode(args[0])
	if err != nil {
		h.Log.WithField("arg", args[0]).Errorf("expected %q or %q as argument, got %q",
			recent.ModeRemove, recent.ModeAdd, args[0])
		return fmt.Errorf("session.Open: %w", err)
	}

	list := h.Config.DefaultList
	if len(args) == 2 {
		list = args[1]
	}
	// xt_recent since 2.6.28, ipt_recent before
	path := h.Locator.Path(list)

	if remoteHost == "" {
		h.Log.WithField("list", list).Error("no PAM_RHOST, not a network login")
		return fmt.Errorf("session.Open: %w", ErrNoRemoteHost)
	}

	ip, err := addr.Resolve(ctx, h.Resolver, remoteHost)
	if err != nil {
		entry := h.Log.WithField("rhost", remoteHost).WithError(err)
		if errors.Is(err, addr.ErrAddressFormat) {
			entry.Error("address conversion error")
		} else {
			entry.Errorf("could not lookup address for %s", remoteHost)
		}
		return fmt.Errorf("session.Open: %w", err)
	}

	d := recent.Directive{Mode: mode, Addr: ip}
	if err := h.Writer.Write(path, d); err != nil {
		h.Log.WithField("path", path).WithError(err).Errorf("can't open %s", path)
		return fmt.Errorf("session.Open: %w", err)
	}

	preposition := "to"
	if mode == recent.ModeRemove {
		preposition = "from"
	}
	h.Log.WithFields(logrus.Fields{
		"rhost":   remoteHost,
		"address": ip.String(),
		"list":    list,
		"action":  mode.Verb(),
	}).Infof("%s %s/%s %s list %s", mode.Verb(), remoteHost, ip, preposition, list)
	return nil
}

// Close는 세션 종료 처리다. 아무것도 하지 않는다.
func (h *Hook) Close(ctx context.Context, args []string) error {
	return nil
}
