package cli

import (
	"github.com/hbjs97/pam-recent/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newSetupCmd() *cobra.Command {
	var force bool
	var binary string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "pam-recent 설정 파일을 대화형으로 생성한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &setup.Runner{
				CfgPath:    a.CfgPath,
				FormRunner: a.FormRunner,
				Force:      force,
				Binary:     binary,
				Out:        cmd.OutOrStdout(),
			}
			return r.Run()
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "확인 없이 기존 설정 파일을 덮어쓴다")
	cmd.Flags().StringVar(&binary, "binary", "", "PAM 줄에 넣을 바이너리 경로")
	return cmd
}
