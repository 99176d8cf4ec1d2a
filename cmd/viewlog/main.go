package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/viewlog/internal/app"
	"github.com/five82/viewlog/internal/config"
	"github.com/five82/viewlog/internal/logging"
	"github.com/five82/viewlog/internal/logserve"
	"github.com/five82/viewlog/internal/logtail"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "viewlog: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	host       string
	secure     bool
	reconnect  bool
	plain      bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "viewlog",
		Short:         "Tail a remote log over a websocket",
		Long:          "viewlog connects to <host>/view-log-ws and shows the streamed log lines, newest at the bottom.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("host") {
				cfg.Host = flags.host
			}
			if fs.Changed("secure") {
				cfg.Secure = flags.secure
			}
			if fs.Changed("reconnect") {
				cfg.Reconnect = flags.reconnect
			}
			if flags.verbose {
				cfg.LogLevel = "debug"
			}

			// The TUI owns the terminal, so it logs to a file.
			logOpts := logging.Options{Level: cfg.LogLevel}
			if !flags.plain {
				logOpts.File = cfg.LogFile
			}
			closer, err := logging.Setup(logOpts)
			if err != nil {
				return err
			}
			defer closer.Close()

			opts := app.Options{Config: cfg, Out: cmd.OutOrStdout()}
			if flags.plain {
				return app.RunPlain(cmd.Context(), opts)
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	fs.StringVar(&flags.host, "host", "", "server host[:port] (default localhost:4000, env "+config.HostEnv+")")
	fs.BoolVar(&flags.secure, "secure", false, "use wss:// instead of ws://")
	fs.BoolVar(&flags.reconnect, "reconnect", false, "reconnect with backoff when the connection drops")
	fs.BoolVar(&flags.plain, "plain", false, "print lines to stdout instead of starting the TUI")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newServeCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		file    string
		listen  string
		tail    int
		poll    time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream a local log file to viewlog clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if verbose {
				level = "debug"
			}
			closer, err := logging.Setup(logging.Options{Level: level})
			if err != nil {
				return err
			}
			defer closer.Close()

			srv, err := logserve.New(logserve.Options{
				File:         file,
				Addr:         listen,
				Tail:         tail,
				PollInterval: poll,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&file, "file", "f", "", "log file to stream (required)")
	fs.StringVar(&listen, "listen", logserve.DefaultAddr, "listen address")
	fs.IntVarP(&tail, "tail", "n", logserve.DefaultTail, "existing lines sent on connect (negative sends all)")
	fs.DurationVar(&poll, "poll", logtail.DefaultPollInterval, "file poll interval")
	fs.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
