package cli

import (
	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/pamenv"
	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/hbjs97/pam-recent/internal/session"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrArgCount는 모듈 인자 개수가 1 또는 2가 아닐 때의 sentinel error다.
	ErrArgCount = session.ErrArgCount
	// ErrInvalidMode는 모드 인자가 "+"/"-"가 아닐 때의 sentinel error다.
	ErrInvalidMode = recent.ErrInvalidMode
	// ErrNoRemoteHost는 PAM_RHOST가 없을 때의 sentinel error다.
	ErrNoRemoteHost = session.ErrNoRemoteHost
	// ErrResolve는 원격 호스트 조회 실패의 sentinel error다.
	ErrResolve = addr.ErrResolve
	// ErrAddressFormat는 주소를 IPv4 문자열로 바꿀 수 없을 때의 sentinel error다.
	ErrAddressFormat = addr.ErrAddressFormat
	// ErrOpen는 recent 목록 파일을 열거나 쓸 수 없을 때의 sentinel error다.
	ErrOpen = recent.ErrOpen
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
	// ErrUnsupportedType는 session이 아닌 PAM 단계에서 호출됐을 때의 sentinel error다.
	ErrUnsupportedType = pamenv.ErrUnsupportedType
)
