package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/navigation"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	baseURL    string
	token      string
	username   string
	password   string
	timeout    time.Duration
	retries    int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "navctl",
		Short:         "Inspect user navigation served by newcomer-admin",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger.InitLogger(logger.Config{Level: level, Console: true})
			return opts.applyConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file providing navigation defaults")
	flags.StringVar(&opts.baseURL, "base-url", envOr("NAV_BASE_URL", "http://localhost:8888"), "Server base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("NAV_TOKEN"), "Bearer access token")
	flags.StringVar(&opts.username, "username", os.Getenv("NAV_USERNAME"), "Login user when no token is given")
	flags.StringVar(&opts.password, "password", os.Getenv("NAV_PASSWORD"), "Login password")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	flags.IntVar(&opts.retries, "retries", 1, "Retries on network errors and 5xx")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(
		newMenusCmd(opts),
		newTreeCmd(opts),
		newRouteCmd(opts),
		newTitleCmd(opts),
		newAvailableCmd(opts),
		newComponentsCmd(),
		newColorCmd(),
	)
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// applyConfig 配置文件中的值只在对应参数未显式指定时生效
func (o *options) applyConfig(cmd *cobra.Command) error {
	if o.configPath == "" {
		return nil
	}
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("base-url") && cfg.Navigation.BaseURL != "" {
		o.baseURL = cfg.Navigation.BaseURL
	}
	if !flags.Changed("timeout") && cfg.Navigation.Timeout > 0 {
		o.timeout = time.Duration(cfg.Navigation.Timeout) * time.Second
	}
	if !flags.Changed("retries") {
		o.retries = cfg.Navigation.Retries
	}
	return nil
}

// client 带认证的客户端，没有令牌时用账号登录
func (o *options) client(cmd *cobra.Command) (*httpclient.Client, error) {
	client := httpclient.NewClient(o.baseURL,
		httpclient.WithTimeout(o.timeout),
		httpclient.WithRetries(o.retries),
	)
	switch {
	case o.token != "":
		client.SetBearerToken(o.token)
	case o.username != "":
		if _, err := navigation.Login(cmd.Context(), client, o.username, o.password); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("either --token or --username is required")
	}
	return client, nil
}
