package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/doctor"
	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/spf13/cobra"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [LIST]",
		Short: "환경 설정을 진단한다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := ""
			if len(args) == 1 {
				list = args[0]
			}
			return a.runDoctor(cmd.Context(), cmd.OutOrStdout(), list)
		},
	}
}

func (a *App) runDoctor(ctx context.Context, out io.Writer, list string) error {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] config: %v\n", err)
		fmt.Fprintln(out, "      Fix: pam-recent setup 실행 또는 설정 파일 확인")
		return err
	}
	fmt.Fprintf(out, "  [OK] config: %s\n", a.CfgPath)

	if list == "" {
		list = cfg.DefaultList
	}
	r, err := a.resolver(cfg)
	if err != nil {
		return fmt.Errorf("cli.doctor: %w", err)
	}

	loc := recent.NewLocator(cfg.ProcDir, cfg.LegacyProcDir)
	results := doctor.RunAll(ctx, a.Commander, loc, r, list)
	printDiagResults(out, results)

	failed := 0
	for _, res := range results {
		if res.Status == doctor.StatusFail {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("cli.doctor: %d개 항목 실패", failed)
	}
	return nil
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(out io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		icon := statusIcon(r.Status)
		fmt.Fprintf(out, "  [%s] %s: %s\n", icon, r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(out, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return "OK"
	case doctor.StatusWarn:
		return "!!"
	case doctor.StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}
