package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/pam-recent/internal/addr"
	"github.com/hbjs97/pam-recent/internal/cmdexec"
	"github.com/hbjs97/pam-recent/internal/config"
	"github.com/hbjs97/pam-recent/internal/logging"
	"github.com/hbjs97/pam-recent/internal/pamenv"
	"github.com/hbjs97/pam-recent/internal/session"
	"github.com/hbjs97/pam-recent/internal/setup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// App은 pam-recent 명령들이 공유하는 의존성이다. 테스트에서는 필드를 직접 채운다.
type App struct {
	CfgPath    string
	Verbose    bool
	Commander  cmdexec.Commander
	Getenv     func(string) string
	Stderr     io.Writer
	Resolver   addr.Resolver       // nil이면 설정의 resolver.backend를 사용한다.
	Syslog     logging.HookFactory // nil이면 syslog를 사용하지 않는다.
	FormRunner setup.FormRunner
}

// NewApp은 실제 환경용 App을 생성한다.
func NewApp() *App {
	return &App{
		CfgPath:    config.DefaultPath,
		Commander:  &cmdexec.RealCommander{},
		Getenv:     os.Getenv,
		Stderr:     os.Stderr,
		Syslog:     logging.DialSyslog,
		FormRunner: &setup.HuhFormRunner{},
	}
}

// NewRootCmd는 실제 환경용 루트 명령을 생성한다.
func NewRootCmd() *cobra.Command {
	return NewApp().NewRootCmd()
}

// NewRootCmd는 pam-recent의 루트 명령을 생성한다.
// 루트 명령 자체가 pam_exec에서 호출되는 session hook이다.
func (a *App) NewRootCmd() *cobra.Command {
	var rhost string

	cmd := &cobra.Command{
		Use:   "pam-recent [flags] MODE [LIST]",
		Short: "로그인 성공 시 xt_recent 목록에서 클라이언트 주소를 추가/삭제한다",
		Long: `pam_exec(8)에서 session 모듈로 호출된다:

  session optional pam_exec.so quiet /usr/local/sbin/pam-recent - MYLIMIT

MODE는 "+" (추가) 또는 "-" (삭제), LIST를 생략하면 default_list를 사용한다.
원격 주소는 PAM_RHOST, 호출 단계는 PAM_TYPE 환경변수에서 읽는다.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHook(cmd.Context(), args, rhost)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	if a.CfgPath == "" {
		a.CfgPath = config.DefaultPath
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", a.CfgPath, "설정 파일 경로")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "상세 출력")
	cmd.Flags().StringVar(&rhost, "rhost", "", "PAM_RHOST 대신 사용할 원격 호스트 (수동 테스트용)")

	// pam_exec 아래에서는 "- doctor"처럼 목록 이름이 하위 명령과 같아도 hook으로 처리한다.
	if a.getenv("PAM_TYPE") == "" {
		cmd.AddCommand(
			a.newDoctorCmd(),
			a.newSnippetCmd(),
			a.newSetupCmd(),
		)
	}
	return cmd
}

func (a *App) runHook(ctx context.Context, args []string, rhost string) error {
	env := pamenv.Read(a.getenv)
	closing, typeErr := env.IsClose()
	// close_session은 설정과 무관하게 항상 성공한다.
	if typeErr == nil && closing {
		var h session.Hook
		return h.Close(ctx, args)
	}

	cfg, log, err := a.load()
	if err != nil {
		return err
	}

	if rhost != "" {
		env.RemoteHost = rhost
	}
	entry := log.WithFields(logrus.Fields{"service": env.Service, "user": env.User})

	if typeErr != nil {
		entry.WithError(typeErr).Error("not a session stack")
		return fmt.Errorf("cli.hook: %w", typeErr)
	}

	r, err := a.resolver(cfg)
	if err != nil {
		entry.WithError(err).Error("resolver setup failed")
		return fmt.Errorf("cli.hook: %w", err)
	}

	return session.New(cfg, r, entry).Open(ctx, args, env.RemoteHost)
}

// load는 설정을 읽고 logger를 만든다. 설정 오류도 syslog에 남도록
// 기본 설정의 logger로 기록한다.
func (a *App) load() (*config.Config, *logrus.Logger, error) {
	cfg, cfgErr := config.Load(a.CfgPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	logCfg := cfg.Log
	if a.Verbose {
		logCfg.Level = "debug"
	}
	log, err := logging.New(logCfg, cfg.IsSyslog(), a.stderr(), a.Syslog)
	if err != nil {
		return nil, nil, fmt.Errorf("cli.load: %w", err)
	}

	if cfgErr != nil {
		log.WithField("path", a.CfgPath).WithError(cfgErr).Error("invalid configuration")
		return nil, nil, cfgErr
	}
	return cfg, log, nil
}

func (a *App) resolver(cfg *config.Config) (addr.Resolver, error) {
	if a.Resolver != nil {
		return a.Resolver, nil
	}
	switch cfg.Resolver.Backend {
	case config.BackendDNS:
		return addr.NewDNSResolver(cfg.Resolver.Nameservers, cfg.Resolver.ResolvConf, cfg.ResolverTimeout())
	default:
		return &addr.SystemResolver{Timeout: cfg.ResolverTimeout()}, nil
	}
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return os.Getenv(key)
	}
	return a.Getenv(key)
}

func (a *App) stderr() io.Writer {
	if a.Stderr == nil {
		return os.Stderr
	}
	return a.Stderr
}
