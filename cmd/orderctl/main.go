// Command orderctl inspects and maintains the Hotpot order store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/hotpot/internal/app"
)

// cli carries state from the root command to its subcommands.
type cli struct {
	configFile string
	verbose    bool

	cfg      *app.Config
	svc      *app.Services
	closeSvc func()
}

// run executes orderctl with args and releases storage afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{closeSvc: func() {}}
	defer func() { c.closeSvc() }()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orderctl",
		Short:         "Inspect and maintain Hotpot orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default config.yaml, /etc/hotpot/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		c.listCmd(),
		c.lookupCmd(),
		c.messageCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := app.LoadConfigFile(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := zapcore.WarnLevel
	if c.verbose {
		level = zapcore.DebugLevel
	}
	lg := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		level,
	))
	ctx := zctx.Base(cmd.Context(), lg)
	cmd.SetContext(ctx)

	svc, closeSvc, err := app.NewServices(ctx, lg, cfg, metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
	c.closeSvc = closeSvc
	if err != nil {
		return err
	}
	c.svc = svc
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
