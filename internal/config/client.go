package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppEnv はクライアントのビルドモードを表す。
type AppEnv string

const (
	// AppEnvDevelopment はローカル開発モード。APIはlocalhostを向く。
	AppEnvDevelopment AppEnv = "development"
	// AppEnvProduction は本番モード。API_URLの明示指定が必須。
	AppEnvProduction AppEnv = "production"
)

// ClientConfig はクライアント（TUI）の設定を保持する。
// 起動時に1回だけ組み立て、APIクライアントへ参照で渡す。
type ClientConfig struct {
	APIBaseURL string
	User       string
	AppEnv     AppEnv
	Timeout    time.Duration
}

// clientFile はTIMESHEET_CLIENT_CONFIGで指定するYAMLファイルの構造。
type clientFile struct {
	APIURL string `yaml:"api_url"`
	User   string `yaml:"user"`
	AppEnv string `yaml:"app_env"`
}

// ClientOverrides はコマンドラインフラグによる上書き値。空文字列は未指定として扱う。
type ClientOverrides struct {
	APIURL string
	User   string
}

// LoadClient はYAMLファイル、環境変数、フラグの順に値を重ねてClientConfigを組み立てる。
// 優先順位: フラグ > 環境変数 > YAMLファイル > ビルドモードからの既定値。
func LoadClient(overrides ClientOverrides) (*ClientConfig, error) {
	var file clientFile
	if path := os.Getenv("TIMESHEET_CLIENT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading client config: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parsing client config: %w", err)
		}
	}

	cfg := &ClientConfig{
		Timeout: getEnvDuration("API_TIMEOUT", 10*time.Second),
	}

	env := firstNonEmpty(os.Getenv("APP_ENV"), file.AppEnv, string(AppEnvDevelopment))
	switch AppEnv(strings.ToLower(env)) {
	case AppEnvDevelopment:
		cfg.AppEnv = AppEnvDevelopment
	case AppEnvProduction:
		cfg.AppEnv = AppEnvProduction
	default:
		return nil, fmt.Errorf("unknown APP_ENV: %q", env)
	}

	apiURL := firstNonEmpty(overrides.APIURL, os.Getenv("API_URL"), file.APIURL)
	if apiURL == "" {
		if cfg.AppEnv == AppEnvProduction {
			return nil, errors.New("API_URL is required when APP_ENV=production")
		}
		apiURL = "http://localhost:" + ServerPortFromEnv()
	}
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL: %q", apiURL)
	}
	cfg.APIBaseURL = strings.TrimRight(apiURL, "/")

	cfg.User = strings.TrimSpace(firstNonEmpty(overrides.User, os.Getenv("TIMESHEET_USER"), file.User))
	if cfg.User == "" {
		return nil, errors.New("required client setting is not set: TIMESHEET_USER")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
