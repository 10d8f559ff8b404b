package cli

import (
	"fmt"

	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/hbjs97/pam-recent/internal/snippet"
	"github.com/spf13/cobra"
)

func (a *App) newSnippetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "PAM/iptables 설정 스니펫을 출력한다",
	}
	cmd.AddCommand(newSnippetPAMCmd(), newSnippetIptablesCmd())
	return cmd
}

func newSnippetPAMCmd() *cobra.Command {
	var binary string

	cmd := &cobra.Command{
		Use:   "pam [MODE] [LIST]",
		Short: "pam.d session 줄을 출력한다",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := recent.ModeRemove
			if len(args) > 0 {
				m, err := recent.ParseMode(args[0])
				if err != nil {
					return fmt.Errorf("cli.snippet: %w", err)
				}
				mode = m
			}
			list := ""
			if len(args) > 1 {
				list = args[1]
			}
			fmt.Fprint(cmd.OutOrStdout(), snippet.PAMStanza(binary, mode, list))
			return nil
		},
	}
	cmd.Flags().StringVar(&binary, "binary", snippet.DefaultBinary, "pam-recent 바이너리 경로")
	return cmd
}

func newSnippetIptablesCmd() *cobra.Command {
	var opts snippet.IptablesOptions

	cmd := &cobra.Command{
		Use:   "iptables [LIST]",
		Short: "recent 목록으로 새 연결을 제한하는 iptables 규칙을 출력한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.List = args[0]
			}
			fmt.Fprint(cmd.OutOrStdout(), snippet.IptablesRules(opts))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Chain, "chain", "limited", "체인 이름")
	cmd.Flags().IntSliceVar(&opts.Ports, "ports", []int{22}, "제한할 TCP 포트")
	cmd.Flags().IntVar(&opts.HitCount, "hitcount", 2, "허용하는 새 연결 수")
	cmd.Flags().IntVar(&opts.Seconds, "seconds", 60, "측정 구간(초)")
	return cmd
}
