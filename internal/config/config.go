package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hbjs97/pam-recent/internal/recent"
	"github.com/sirupsen/logrus"
)

// DefaultPath는 pam-recent 설정 파일의 기본 경로다.
const DefaultPath = "/etc/security/pam_recent.toml"

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("설정 파일 오류")

// 지원하는 resolver backend.
const (
	BackendSystem = "system"
	BackendDNS    = "dns"
)

// Config는 pam_recent.toml의 최상위 구조체다.
// Load 이후에는 읽기 전용 값으로 취급한다.
type Config struct {
	DefaultList   string   `toml:"default_list"`
	ProcDir       string   `toml:"proc_dir"`
	LegacyProcDir string   `toml:"legacy_proc_dir"`
	Resolver      Resolver `toml:"resolver"`
	Log           Log      `toml:"log"`
}

// Resolver는 원격 호스트 조회 방식 설정이다.
type Resolver struct {
	Backend     string   `toml:"backend"`
	Nameservers []string `toml:"nameservers"`
	ResolvConf  string   `toml:"resolv_conf"`
	Timeout     string   `toml:"timeout"`
}

// Log는 로깅 설정이다.
type Log struct {
	Level    string `toml:"level"`
	Syslog   *bool  `toml:"syslog"`
	Tag      string `toml:"tag"`
	Facility string `toml:"facility"`
}

// Facilities는 log.facility에 허용되는 값이다.
var Facilities = []string{
	"auth", "authpriv", "daemon", "user",
	"local0", "local1", "local2", "local3", "local4", "local5", "local6", "local7",
}

// Default는 설정 파일이 없을 때 사용하는 값이다.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load는 pam_recent.toml을 파싱하여 Config를 반환한다.
// 파일이 없으면 Default()를 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %w", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 Config를 TOML로 path에 기록한다 (권한 0600).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# pam-recent configuration")
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsSyslog는 log.syslog 설정값을 반환한다.
func (c *Config) IsSyslog() bool {
	if c.Log.Syslog == nil {
		return true
	}
	return *c.Log.Syslog
}

// ResolverTimeout는 resolver.timeout을 Duration으로 반환한다.
func (c *Config) ResolverTimeout() time.Duration {
	d, err := time.ParseDuration(c.Resolver.Timeout)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) applyDefaults() {
	if c.DefaultList == "" {
		c.DefaultList = recent.DefaultList
	}
	if c.ProcDir == "" {
		c.ProcDir = recent.DefaultDir
	}
	if c.LegacyProcDir == "" {
		c.LegacyProcDir = recent.DefaultLegacyDir
	}
	if c.Resolver.Backend == "" {
		c.Resolver.Backend = BackendSystem
	}
	if c.Resolver.ResolvConf == "" {
		c.Resolver.ResolvConf = "/etc/resolv.conf"
	}
	if c.Resolver.Timeout == "" {
		c.Resolver.Timeout = "5s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Syslog == nil {
		t := true
		c.Log.Syslog = &t
	}
	if c.Log.Tag == "" {
		c.Log.Tag = "pam_recent"
	}
	if c.Log.Facility == "" {
		c.Log.Facility = "authpriv"
	}
}

func (c *Config) validate() error {
	if strings.Contains(c.DefaultList, "/") {
		return fmt.Errorf("config.Load: %w: default_list에 '/'를 사용할 수 없습니다: %q", ErrConfig, c.DefaultList)
	}
	if !filepath.IsAbs(c.ProcDir) {
		return fmt.Errorf("config.Load: %w: proc_dir는 절대 경로여야 합니다: %q", ErrConfig, c.ProcDir)
	}
	if !filepath.IsAbs(c.LegacyProcDir) {
		return fmt.Errorf("config.Load: %w: legacy_proc_dir는 절대 경로여야 합니다: %q", ErrConfig, c.LegacyProcDir)
	}
	switch c.Resolver.Backend {
	case BackendSystem, BackendDNS:
	default:
		return fmt.Errorf("config.Load: %w: 알 수 없는 resolver.backend: %q", ErrConfig, c.Resolver.Backend)
	}
	if d, err := time.ParseDuration(c.Resolver.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("config.Load: %w: resolver.timeout이 올바르지 않습니다: %q", ErrConfig, c.Resolver.Timeout)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config.Load: %w: %w", ErrConfig, err)
	}
	if !isFacility(c.Log.Facility) {
		return fmt.Errorf("config.Load: %w: 알 수 없는 log.facility: %q", ErrConfig, c.Log.Facility)
	}
	return nil
}

func isFacility(name string) bool {
	for _, f := range Facilities {
		if f == name {
			return true
		}
	}
	return false
}
