package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	"github.com/psychgraph/dsmviz/pkg/config"
	"github.com/psychgraph/dsmviz/pkg/dataset"
	"github.com/psychgraph/dsmviz/pkg/document"
	"github.com/psychgraph/dsmviz/pkg/graph"
	"github.com/psychgraph/dsmviz/pkg/logging"
	"github.com/psychgraph/dsmviz/pkg/metrics"
	"github.com/psychgraph/dsmviz/pkg/output"
	"github.com/psychgraph/dsmviz/pkg/style"
	"github.com/psychgraph/dsmviz/pkg/watcher"
	"github.com/psychgraph/dsmviz/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("dsmviz", pflag.ExitOnError)
	flags.StringP("input", "i", "merged_disorders_data.csv", "Path to the relationship table (CSV)")
	flags.StringP("output", "o", "disorder_network.html", "Path for the generated document")
	flags.Bool("web", false, "Serve the document over HTTP instead of writing a file only")
	flags.Int("port", 8080, "Port for web server (only used with --web)")
	flags.Bool("watch", false, "Rebuild when the input table changes (requires --web)")
	flags.Bool("open", true, "Open the result in the default browser")
	flags.String("category-policy", config.CategoryPolicyFirst, "Category collision policy: first or strict")
	flags.String("verbosity", "", "Log level: debug, info, warn, error")
	flags.CountP("verbose", "v", "Increase log verbosity (-v, -vv)")
	flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	applyVerbosity(cfg)

	if cfg.WebMode {
		runWebMode(cfg)
		return
	}

	snap, err := buildSnapshot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output.PrintNetworkReport(cfg.Input, snap.Annotated.Summary, snap.Metrics)

	if err := document.Generate(snap.Annotated, snap.Metrics, cfg.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nVisualization written to %s\n", cfg.Output)

	// Best effort only; a headless machine must not change the exit code.
	if cfg.OpenBrowser {
		openBrowser("file://" + absolute(cfg.Output))
	}
}

// buildSnapshot runs the whole pipeline: load, build, annotate, measure
func buildSnapshot(cfg *config.Config) (*web.Snapshot, error) {
	records, err := dataset.Load(cfg.Input)
	if err != nil {
		return nil, err
	}

	policy, err := graph.ParsePolicy(cfg.CategoryPolicy)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(records, policy)
	if err != nil {
		return nil, err
	}

	annotated := style.Annotate(g)
	m := metrics.Compute(g)

	return &web.Snapshot{
		Annotated: annotated,
		Metrics:   m,
		InputPath: cfg.Input,
		BuiltAt:   time.Now(),
	}, nil
}

func runWebMode(cfg *config.Config) {
	snap, err := buildSnapshot(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output.PrintNetworkReport(cfg.Input, snap.Annotated.Summary, snap.Metrics)

	server := web.NewServer()
	server.SetSnapshot(snap)

	if cfg.Watch {
		if err := startWatch(cfg, server); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.OpenBrowser {
		go func() {
			// Give the listener a moment before pointing a browser at it
			time.Sleep(500 * time.Millisecond)
			openBrowser(url)
		}()
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

// startWatch rebuilds the snapshot whenever the input table changes. A
// failed rebuild keeps the previous snapshot served and reports the error
// over SSE.
func startWatch(cfg *config.Config, server *web.Server) error {
	w, err := watcher.New(cfg.Input)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(w.Events(), 300*time.Millisecond, 2*time.Second)
	debouncer.Start(ctx)

	go func() {
		for range debouncer.Output() {
			logging.Info("dataset changed, rebuilding", "path", cfg.Input)
			snap, err := buildSnapshot(cfg)
			if err != nil {
				logging.Error("rebuild failed", "error", err)
				server.PublishDatasetError(cfg.Input, err)
				continue
			}
			server.SetSnapshot(snap)
			logging.Info("rebuild complete",
				"nodes", snap.Annotated.Summary.Nodes,
				"edges", snap.Annotated.Summary.Edges)
		}
	}()

	return nil
}

func applyVerbosity(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Verbosity {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.VerboseCnt > 0 {
		level = slog.LevelDebug
	}
	logging.SetLevel(level)
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "goos", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
