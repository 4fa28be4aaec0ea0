// Command frenzy factors numbers and plays the guess-the-factors game from
// the terminal. With --addr, factor and batch run against a frenzy server.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	frenzyv1 "factor-frenzy/api/frenzy/v1"
	"factor-frenzy/internal/logging"
)

// cli holds the persistent flags and the logger shared by all subcommands.
type cli struct {
	addr    string
	timeout time.Duration
	verbose bool
	logger  *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "frenzy",
		Short: "Factor numbers by trial division and play Factor Frenzy",
		Long: `frenzy factors integers by trial division and times each run.

Commands that only compute (factor, batch) run locally unless --addr names a
frenzy gRPC server. play always runs an in-process game.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			logger, err := logging.New("", level)
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&c.addr, "addr", "", "frenzy server address (host:port); empty runs locally")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "per-request timeout in remote mode")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.factorCmd(),
		c.batchCmd(),
		c.hintCmd(),
		c.playCmd(),
	)
	return root
}

// dial connects to --addr. Callers must close the connection.
func (c *cli) dial() (*grpc.ClientConn, frenzyv1.FactorServiceClient, error) {
	conn, err := grpc.NewClient(c.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("connected", zap.String("addr", c.addr))
	return conn, frenzyv1.NewFactorServiceClient(conn), nil
}

func (c *cli) remote() bool { return c.addr != "" }
