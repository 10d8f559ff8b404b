package setup

import (
	"fmt"
	"net"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/recent"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
type HuhFormRunner struct{}

var _ FormRunner = (*HuhFormRunner)(nil)

// ValidateList는 xt_recent 목록 이름을 검증한다.
func ValidateList(s string) error {
	if s == "" {
		return fmt.Errorf("목록 이름을 입력하세요")
	}
	if strings.ContainsAny(s, "/ \t") {
		return fmt.Errorf("목록 이름에 '/'나 공백을 사용할 수 없습니다")
	}
	return nil
}

// ParseNameservers는 쉼표로 구분된 nameserver 목록을 파싱한다.
func ParseNameservers(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		host := f
		if h, _, err := net.SplitHostPort(f); err == nil {
			host = h
		}
		if net.ParseIP(strings.Trim(host, "[]")) == nil {
			return nil, fmt.Errorf("올바른 IP 주소가 아닙니다: %s", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// RunSettingsForm은 설정 입력 폼을 실행한다.
func (h *HuhFormRunner) RunSettingsForm(defaults Answers) (Answers, error) {
	ans := defaults
	servers := strings.Join(defaults.Nameservers, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("기본 recent 목록 이름").
				Description("PAM 설정에 목록 이름이 없을 때 사용한다").
				Value(&ans.DefaultList).
				Validate(ValidateList),
			huh.NewSelect[recent.Mode]().
				Title("로그인 성공 시 동작").
				Options(
					huh.NewOption("목록에서 삭제 (-)", recent.ModeRemove),
					huh.NewOption("목록에 추가 (+)", recent.ModeAdd),
				).
				Value(&ans.Mode),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("호스트 조회 방식").
				Options(
					huh.NewOption("system (nsswitch, /etc/hosts)", config.BackendSystem),
					huh.NewOption("dns (A 레코드 직접 질의)", config.BackendDNS),
				).
				Value(&ans.Backend),
			huh.NewInput().
				Title("nameserver (쉼표 구분, 비우면 resolv.conf)").
				Value(&servers).
				Validate(func(s string) error {
					_, err := ParseNameservers(s)
					return err
				}),
			huh.NewConfirm().
				Title("syslog로 기록할까요?").
				Value(&ans.Syslog),
		),
	)
	if err := form.Run(); err != nil {
		return Answers{}, fmt.Errorf("setup.RunSettingsForm: %w", err)
	}

	ns, err := ParseNameservers(servers)
	if err != nil {
		return Answers{}, fmt.Errorf("setup.RunSettingsForm: %w", err)
	}
	ans.Nameservers = ns
	return ans, nil
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	var confirm bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}
