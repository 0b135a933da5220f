package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-insights/internal/app"
	"github.com/riskibarqy/fantasy-insights/internal/config"
	"github.com/riskibarqy/fantasy-insights/internal/domain/player"
	"github.com/riskibarqy/fantasy-insights/internal/platform/logging"
)

// snapshotCommands is the slice of the player snapshot surface this tool drives.
type snapshotCommands interface {
	Status(ctx context.Context) (player.SnapshotStatus, error)
	Refresh(ctx context.Context) error
	Warm(ctx context.Context) (player.Snapshot, error)
}

type commands struct {
	services *app.Services
}

func (c commands) Status(ctx context.Context) (player.SnapshotStatus, error) {
	return c.services.Snapshots.Status(ctx)
}

func (c commands) Refresh(ctx context.Context) error {
	return c.services.Snapshots.Refresh(ctx)
}

func (c commands) Warm(ctx context.Context) (player.Snapshot, error) {
	return c.services.Catalog.Warm(ctx)
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(os.Stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], commands{services: services}, os.Stdout); err != nil {
		logger.Error("snapshot command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, snapshots snapshotCommands, out io.Writer) error {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case "status":
		return printStatus(ctx, snapshots, out)
	case "refresh":
		if err := snapshots.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh snapshot: %w", err)
		}
		return printStatus(ctx, snapshots, out)
	case "warm":
		snap, err := snapshots.Warm(ctx)
		if err != nil {
			return fmt.Errorf("warm snapshot: %w", err)
		}
		fmt.Fprintf(out, "warmed %d players at %s\n", snap.Len(), snap.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
		return printStatus(ctx, snapshots, out)
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printStatus(ctx context.Context, snapshots snapshotCommands, out io.Writer) error {
	status, err := snapshots.Status(ctx)
	if err != nil {
		return fmt.Errorf("snapshot status: %w", err)
	}
	body, err := sonic.ConfigStd.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: snapshot <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  status   show the player snapshot file state")
	fmt.Fprintln(w, "  refresh  delete the snapshot so the next request refetches it")
	fmt.Fprintln(w, "  warm     fetch the player catalog now and save it")
}
