package setup

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/hbjs97/pam-recent/internal/snippet"
)

// ErrAborted는 사용자가 덮어쓰기를 거부했을 때 반환된다.
var ErrAborted = errors.New("setup 취소됨")

// Runner는 interactive setup의 진입점이다.
type Runner struct {
	CfgPath    string
	FormRunner FormRunner
	Force      bool
	Binary     string // PAM 줄에 넣을 바이너리 경로. 비어있으면 기본 경로.
	Out        io.Writer
}

// Run은 setup 플로우를 실행한다.
func (r *Runner) Run() error {
	base := config.Default()
	_, err := os.Stat(r.CfgPath)
	switch {
	case err == nil:
		existing, err := config.Load(r.CfgPath)
		if err != nil {
			return fmt.Errorf("setup.Run: %w", err)
		}
		base = existing
		if !r.Force {
			ok, err := r.FormRunner.RunConfirm(fmt.Sprintf("%s 파일을 덮어쓸까요?", r.CfgPath))
			if err != nil {
				return fmt.Errorf("setup.Run: %w", err)
			}
			if !ok {
				return fmt.Errorf("setup.Run: %w", ErrAborted)
			}
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("setup.Run: %w", err)
	}

	ans, err := r.FormRunner.RunSettingsForm(answersFrom(base))
	if err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}
	if err := ValidateList(ans.DefaultList); err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}

	cfg := apply(base, ans)
	if err := config.Save(r.CfgPath, cfg); err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}

	fmt.Fprintf(r.Out, "설정 파일이 생성되었습니다: %s\n", r.CfgPath)
	fmt.Fprintln(r.Out, "/etc/pam.d/<service>에 다음 줄을 추가하세요:")
	fmt.Fprintf(r.Out, "  %s", snippet.PAMStanza(r.Binary, ans.Mode, ""))
	fmt.Fprintln(r.Out, "확인: pam-recent doctor")
	return nil
}

func answersFrom(cfg *config.Config) Answers {
	return Answers{
		DefaultList: cfg.DefaultList,
		Mode:        recent.ModeRemove,
		Backend:     cfg.Resolver.Backend,
		Nameservers: cfg.Resolver.Nameservers,
		Syslog:      cfg.IsSyslog(),
	}
}

func apply(base *config.Config, ans Answers) *config.Config {
	cfg := *base
	cfg.DefaultList = ans.DefaultList
	cfg.Resolver.Backend = ans.Backend
	cfg.Resolver.Nameservers = ans.Nameservers
	syslog := ans.Syslog
	cfg.Log.Syslog = &syslog
	return &cfg
}
