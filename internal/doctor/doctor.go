package doctor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/hbjs97/pam-recent/internal/cmdexec"
	"github.com/hbjs97/pam-recent/internal/recent"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// CheckProcDirs는 어느 recent 디렉토리가 활성 상태인지 확인한다.
func CheckProcDirs(loc *recent.Locator) DiagResult {
	switch {
	case loc.Probe(loc.NewDir):
		return DiagResult{
			Name:    "proc_dir",
			Status:  StatusOK,
			Message: fmt.Sprintf("%s 사용", loc.NewDir),
		}
	case loc.Probe(loc.LegacyDir):
		return DiagResult{
			Name:    "proc_dir",
			Status:  StatusOK,
			Message: fmt.Sprintf("%s 사용 (구 커널)", loc.LegacyDir),
		}
	}
	return DiagResult{
		Name:    "proc_dir",
		Status:  StatusFail,
		Message: fmt.Sprintf("%s, %s 모두 없음", loc.NewDir, loc.LegacyDir),
		Fix:     "modprobe xt_recent 후 recent 규칙을 로드하세요",
	}
}

// CheckList는 목록 파일이 존재하고 현재 사용자가 쓸 수 있는지 확인한다.
func CheckList(loc *recent.Locator, list string, writable func(string) bool) DiagResult {
	name := fmt.Sprintf("list_%s", list)
	path := loc.Path(list)
	if !loc.Probe(path) {
		return DiagResult{
			Name:    name,
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 없음", path),
			Fix:     fmt.Sprintf("iptables 규칙에 -m recent --name %s 를 추가하세요", list),
		}
	}
	if writable == nil {
		writable = recent.Writable
	}
	if !writable(path) {
		return DiagResult{
			Name:    name,
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 쓰기 권한 없음", path),
			Fix:     "root로 실행하거나 xt_recent ip_list_uid/ip_list_perms 모듈 파라미터를 조정하세요",
		}
	}
	return DiagResult{
		Name:    name,
		Status:  StatusOK,
		Message: fmt.Sprintf("%s 쓰기 가능", path),
	}
}

// CheckIptables는 list를 참조하는 recent 규칙이 있는지 확인한다.
func CheckIptables(ctx context.Context, cmd cmdexec.Commander, list string) DiagResult {
	out, err := cmd.Run(ctx, "iptables", "-S")
	if err != nil {
		if cmdexec.IsNotFound(err) {
			return DiagResult{
				Name:    "iptables",
				Status:  StatusWarn,
				Message: "iptables 없음 — 규칙 확인 생략",
			}
		}
		return DiagResult{
			Name:    "iptables",
			Status:  StatusWarn,
			Message: fmt.Sprintf("iptables -S 실패: %s", strings.TrimSpace(string(out))),
			Fix:     "root로 다시 실행하세요",
		}
	}

	if hasRecentRule(out, list) {
		return DiagResult{
			Name:    "iptables",
			Status:  StatusOK,
			Message: fmt.Sprintf("recent 규칙이 %s 목록을 사용함", list),
		}
	}
	return DiagResult{
		Name:    "iptables",
		Status:  StatusWarn,
		Message: fmt.Sprintf("%s 목록을 사용하는 recent 규칙 없음", list),
		Fix:     fmt.Sprintf("pam-recent snippet iptables %s", list),
	}
}

func hasRecentRule(rules []byte, list string) bool {
	s := bufio.NewScanner(bytes.NewReader(rules))
	for s.Scan() {
		fields := strings.Fields(s.Text())
		recentMatch := false
		for i, f := range fields {
			if f == "recent" && i > 0 && fields[i-1] == "-m" {
				recentMatch = true
			}
			if recentMatch && f == "--name" && i+1 < len(fields) && fields[i+1] == list {
				return true
			}
		}
	}
	return false
}

// CheckResolver는 resolver가 localhost를 IPv4로 조회할 수 있는지 확인한다.
// dns backend의 상위 nameserver는 localhost를 모를 수 있으므로 실패해도 WARN이다.
func CheckResolver(ctx context.Context, r addr.Resolver) DiagResult {
	ip, err := addr.Resolve(ctx, r, "localhost")
	if err != nil {
		if _, ok := r.(*addr.DNSResolver); ok {
			return DiagResult{
				Name:    "resolver",
				Status:  StatusWarn,
				Message: err.Error(),
				Fix:     "nameserver가 응답하는지 실제 원격 호스트 이름으로 확인하세요",
			}
		}
		return DiagResult{
			Name:    "resolver",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     "resolver 설정과 /etc/hosts를 확인하세요",
		}
	}
	return DiagResult{
		Name:    "resolver",
		Status:  StatusOK,
		Message: fmt.Sprintf("localhost → %s", ip),
	}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, loc *recent.Locator, r addr.Resolver, list string) []DiagResult {
	return []DiagResult{
		CheckProcDirs(loc),
		CheckList(loc, list, nil),
		CheckIptables(ctx, cmd, list),
		CheckResolver(ctx, r),
	}
}
