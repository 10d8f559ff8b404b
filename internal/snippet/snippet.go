package snippet

import (
	"fmt"
	"strings"

	"github.com/hbjs97/pam-recent/internal/recent"
)

// DefaultBinary는 설치된 pam-recent 바이너리의 기본 경로다.
const DefaultBinary = "/usr/local/sbin/pam-recent"

// PAMStanza는 /etc/pam.d/<service>에 넣을 session 줄을 반환한다.
// list가 비어 있으면 인자를 생략하여 기본 목록을 사용한다.
func PAMStanza(binary string, mode recent.Mode, list string) string {
	if binary == "" {
		binary = DefaultBinary
	}
	line := fmt.Sprintf("session optional pam_exec.so quiet %s %s", binary, mode)
	if list != "" {
		line += " " + list
	}
	return line + "\n"
}

// IptablesOptions는 rate limit 체인 생성 옵션이다.
type IptablesOptions struct {
	Chain    string
	List     string
	Ports    []int
	HitCount int
	Seconds  int
}

func (o IptablesOptions) withDefaults() IptablesOptions {
	if o.Chain == "" {
		o.Chain = "limited"
	}
	if o.List == "" {
		o.List = recent.DefaultList
	}
	if len(o.Ports) == 0 {
		o.Ports = []int{22}
	}
	if o.HitCount <= 0 {
		o.HitCount = 2
	}
	if o.Seconds <= 0 {
		o.Seconds = 60
	}
	return o
}

// IptablesRules는 새 연결을 recent 목록으로 rate limit하는 iptables 명령을 반환한다.
// 기존 연결(ESTABLISHED)은 이 규칙보다 먼저 처리되어야 한다.
func IptablesRules(opts IptablesOptions) string {
	o := opts.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "# handle ESTABLISHED,RELATED traffic before these rules\n")
	fmt.Fprintf(&b, "iptables -N %s\n", o.Chain)
	for _, p := range o.Ports {
		fmt.Fprintf(&b, "iptables -A INPUT -p tcp --dport %d -m conntrack --ctstate NEW -j %s\n", p, o.Chain)
	}
	fmt.Fprintf(&b, "iptables -A %s -m recent --name %s --rcheck --hitcount %d --seconds %d -j DROP\n",
		o.Chain, o.List, o.HitCount, o.Seconds)
	fmt.Fprintf(&b, "iptables -A %s -m recent --name %s --set -j ACCEPT\n", o.Chain, o.List)
	return b.String()
}
