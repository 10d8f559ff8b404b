package setup

import "github.com/hbjs97/pam-recent/internal/recent"

// Answers는 setup 폼에서 사용자가 입력한 값이다.
type Answers struct {
	DefaultList string
	Mode        recent.Mode
	Backend     string
	Nameservers []string
	Syslog      bool
}

// FormRunner는 TUI 폼 실행을 추상화하는 interface다.
// 프로덕션에서는 huh 기반 구현, 테스트에서는 mock을 사용한다.
type FormRunner interface {
	// RunSettingsForm은 설정 입력 폼을 실행한다. defaults는 초기값이다.
	RunSettingsForm(defaults Answers) (Answers, error)

	// RunConfirm은 확인 프롬프트를 표시한다.
	RunConfirm(message string) (bool, error)
}
