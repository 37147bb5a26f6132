package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/RassulYunussov/jsonadm"
	"github.com/RassulYunussov/jsonadm/common"
	"github.com/RassulYunussov/jsonadm/config"
	"github.com/RassulYunussov/jsonadm/internal/cache"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type options struct {
	cfgPath  string
	logLevel string
	path     string
}

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "jsonadm",
		Short:        "Inspect and exercise JSON admin client decorator stacks",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "path to TOML config (default $HOME/.jsonadm/config.toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	decoratorsCmd := &cobra.Command{
		Use:   "decorators",
		Short: "Print the decorators wrapped around a resource path, innermost first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			for _, name := range jsonadm.DecoratorNames(cfg, opts.path) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	decoratorsCmd.Flags().StringVar(&opts.path, "path", "", "resource path, e.g. product/property")
	_ = decoratorsCmd.MarkFlagRequired("path")

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Request the available verbs of a resource from the upstream endpoint through the configured decorators",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runOptions(cmd, cfg, opts)
		},
	}
	optionsCmd.Flags().StringVar(&opts.path, "path", "", "resource path, e.g. product/property")
	_ = optionsCmd.MarkFlagRequired("path")

	root.AddCommand(decoratorsCmd, optionsCmd)
	return root
}

// loadConfig reads file and environment configuration, explicitly set flags win
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfgFile := opts.cfgPath
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "log-level" {
			cfg.LogLevel = opts.logLevel
		}
	})
	return cfg, cfg.Validate()
}

func runOptions(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	if cfg.Remote.BaseURL == "" {
		return fmt.Errorf("remote base url is not configured")
	}
	logger, err := config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := &common.Context{Config: cfg, Logger: logger}

	if cfg.Cache.RedisAddr != "" {
		dialCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()
		rc, err := cache.DialRedisCache(dialCtx, cfg.Cache.RedisAddr)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, caching disabled")
		} else {
			defer rc.Close()
			ctx.Cache = rc
		}
	}

	client, err := jsonadm.CreateFromConfig(jsonadm.CreateRemote(cfg.Remote.BaseURL, cfg.Remote.Timeout, ctx, nil, nil, opts.path), ctx, nil, nil, opts.path)
	if err != nil {
		return err
	}
	r, err := http.NewRequestWithContext(cmd.Context(), http.MethodOptions, "/"+opts.path, nil)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", common.ContentType)
	resp, err := client.Options(r, common.NewResponse())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d\n%s\n", resp.StatusCode, resp.Body)
	return nil
}
