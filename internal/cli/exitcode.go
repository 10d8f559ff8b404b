package cli

import (
	"errors"
)

// ExitCode는 pam-recent의 종료 코드다. pam_exec는 0이 아니면 모두 실패로 본다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다.
	ExitGeneral ExitCode = 1
	// ExitArgCount는 인자 개수 오류다.
	ExitArgCount ExitCode = 2
	// ExitInvalidMode는 모드 인자 오류다.
	ExitInvalidMode ExitCode = 3
	// ExitNoRemoteHost는 PAM_RHOST 없음이다.
	ExitNoRemoteHost ExitCode = 4
	// ExitResolve는 호스트 조회 실패다.
	ExitResolve ExitCode = 5
	// ExitAddressFormat는 주소 변환 실패다.
	ExitAddressFormat ExitCode = 6
	// ExitOpen는 목록 파일 열기/쓰기 실패다.
	ExitOpen ExitCode = 7
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 8
	// ExitUnsupportedType는 session 외 단계에서 호출된 경우다.
	ExitUnsupportedType ExitCode = 9
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrArgCount):
		return ExitArgCount
	case errors.Is(err, ErrInvalidMode):
		return ExitInvalidMode
	case errors.Is(err, ErrNoRemoteHost):
		return ExitNoRemoteHost
	case errors.Is(err, ErrResolve):
		return ExitResolve
	case errors.Is(err, ErrAddressFormat):
		return ExitAddressFormat
	case errors.Is(err, ErrOpen):
		return ExitOpen
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedType):
		return ExitUnsupportedType
	default:
		return ExitGeneral
	}
}
