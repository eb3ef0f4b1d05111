package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/nstehr/vimy/vimy-squads/agent"
	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/nstehr/vimy/vimy-squads/config"
	"github.com/nstehr/vimy/vimy-squads/history"
	"github.com/nstehr/vimy/vimy-squads/ipc"
	"github.com/nstehr/vimy/vimy-squads/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Squad Tactics Sidecar`

var (
	configPath  string
	socketPath  string
	metricsAddr string
	logLevel    string
	roundsLimit int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vimy-squads",
	Short: "Squad engagement engine for the host game",
	Long: `vimy-squads listens on a unix socket for game state from the host and
answers every tick with per-unit maneuvers for each friendly squad.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration and print the effective values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Show recent rounds and the running score from history.path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History.Path == "" {
			return errors.New("history.path is not configured")
		}
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		return printRounds(cmd.Context(), cmd.OutOrStdout(), store, roundsLimit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "unix socket path (overrides server.socket)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address (overrides server.metrics_addr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	roundsCmd.Flags().IntVar(&roundsLimit, "limit", 10, "number of rounds to list")
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(roundsCmd)
}

func printRounds(ctx context.Context, w io.Writer, store *history.Store, limit int) error {
	recent, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	tally, err := store.Tally(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tOUTCOME\tDURATION\tOWN\tENEMY\tTRANSITIONS")
	for _, r := range recent {
		fmt.Fprintf(tw, "%s\t%s\t%.1fs\t%d/%d\t%d/%d\t%d\n",
			r.ID, r.Outcome, r.EndedAt-r.StartedAt,
			r.OwnLeft, r.OwnStart, r.EnemyLeft, r.EnemyStart, r.Transitions)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "score: won %d, lost %d, tie %d\n",
		tally[agent.OutcomeWon], tally[agent.OutcomeLost], tally[agent.OutcomeTie])
	return err
}

// loadConfig applies flags on top of file and environment settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if socketPath != "" {
		cfg.Server.Socket = socketPath
	}
	if metricsAddr != "" {
		cfg.Server.MetricsAddr = metricsAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// server holds what every session shares.
type server struct {
	cfg      *config.Config
	engine   combat.Config
	oracle   combat.Oracle
	recorder *metrics.Recorder
	store    *history.Store
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)
	slog.Info("starting vimy-squads", "socket", cfg.Server.Socket, "metricsAddr", cfg.Server.MetricsAddr)

	engine, err := cfg.Combat()
	if err != nil {
		return err
	}
	oracle, err := combat.NewExprOracle(cfg.Oracle.Expr, cfg.Oracle.Cuts)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	s := &server{cfg: cfg, engine: engine, oracle: oracle, recorder: metrics.New(reg)}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		s.store = store
		slog.Info("recording rounds", "path", cfg.History.Path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Server.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", "addr", cfg.Server.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		slog.Info("serving metrics", "addr", cfg.Server.MetricsAddr)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Server.Socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.Server.Socket, err)
	}
	listener, err := net.Listen("unix", cfg.Server.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Socket, err)
	}
	defer os.Remove(cfg.Server.Socket)
	slog.Info("listening on domain socket", "path", cfg.Server.Socket)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("shutting down")
				return nil
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		slog.Info("new connection accepted")
		go s.handleConn(ctx, conn)
	}
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return mux
}

// handleConn gives each session its own controller so squad records never
// cross between games.
func (s *server) handleConn(ctx context.Context, conn net.Conn) {
	ctrl, err := combat.NewController(s.engine, s.oracle, combat.WithObserver(s.recorder))
	if err != nil {
		slog.Error("failed to build controller", "error", err)
		conn.Close()
		return
	}

	c := ipc.NewConnection(conn, nil)
	var store agent.RoundStore
	if s.store != nil {
		store = s.store
	}
	a := agent.New(ctx, c, ctrl, agent.WithTickObserver(s.recorder), agent.WithRounds(store, s.recorder))
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	if err := c.ReadLoop(ctx); err != nil {
		slog.Error("connection ended", "player", a.Player, "error", err)
	}
}
