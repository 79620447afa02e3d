// Gpsrd is a spoken-command interpreter daemon for a general purpose
// service robot. It compiles the command grammar from an entity
// vocabulary, then runs a capture → parse → confirm loop: each matched
// utterance is read back to the operator and handed to the consumer as
// a structured command.
//
// Usage:
//
//	gpsrd [flags]
//	gpsrd --config /path/to/gpsrd.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nlr-robotics/gpsrd/internal/command"
	"github.com/nlr-robotics/gpsrd/internal/config"
	"github.com/nlr-robotics/gpsrd/internal/formatter"
	"github.com/nlr-robotics/gpsrd/internal/grammar"
	"github.com/nlr-robotics/gpsrd/internal/health"
	"github.com/nlr-robotics/gpsrd/internal/loop"
	"github.com/nlr-robotics/gpsrd/internal/matcher"
	"github.com/nlr-robotics/gpsrd/internal/speech"
	"github.com/nlr-robotics/gpsrd/internal/speech/asrhttp"
	"github.com/nlr-robotics/gpsrd/internal/speech/console"
	"github.com/nlr-robotics/gpsrd/internal/speech/wyoming"
	"github.com/nlr-robotics/gpsrd/internal/vocabulary"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/gpsrd.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gpsrd %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("gpsrd starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load the vocabulary and compile the command grammars.
	vocab, err := vocabulary.Load(cfg.Vocabulary.Path)
	if err != nil {
		slog.Error("failed to load vocabulary", "path", cfg.Vocabulary.Path, "error", err)
		os.Exit(1)
	}

	set, err := grammar.Compile(vocab)
	if err != nil {
		slog.Error("failed to compile grammars", "error", err)
		os.Exit(1)
	}
	slog.Info("grammars compiled",
		"templates", len(set.Grammars()),
		"object_names", len(vocab.ObjectNames),
		"rooms", len(vocab.RoomNames))

	var opts []matcher.Option
	if cfg.Parser.Recovery {
		opts = append(opts, matcher.WithRecovery())
	}
	m := matcher.New(set, opts...)
	f := formatter.New(set)

	// Initialize the speech backends. The console device serves both
	// directions, so a single instance is shared when both sides use it.
	dev := console.New()

	var capturer speech.Capturer
	switch cfg.Speech.Capture.Backend {
	case "http":
		capturer = asrhttp.New(cfg.Speech.Capture.HTTP)
		slog.Info("using HTTP capture backend", "endpoint", cfg.Speech.Capture.HTTP.Endpoint)
	case "console":
		capturer = dev
		slog.Info("using console capture backend")
	default:
		slog.Error("unknown capture backend", "backend", cfg.Speech.Capture.Backend)
		os.Exit(1)
	}
	defer capturer.Close()

	var speaker speech.Speaker
	switch cfg.Speech.Output.Backend {
	case "wyoming":
		speaker, err = wyoming.New(cfg.Speech.Output.Wyoming)
		if err != nil {
			slog.Error("failed to create wyoming speaker", "error", err)
			os.Exit(1)
		}
		slog.Info("using wyoming output backend",
			"endpoint", cfg.Speech.Output.Wyoming.Endpoint,
			"voice", cfg.Speech.Output.Wyoming.Voice)
	case "console":
		speaker = dev
		slog.Info("using console output backend")
	default:
		slog.Error("unknown output backend", "backend", cfg.Speech.Output.Backend)
		os.Exit(1)
	}
	defer speaker.Close()

	// Confirmed commands go to the task planner; until one is attached
	// the daemon logs the structured form.
	consumer := func(ctx context.Context, cmd command.Command) error {
		payload, err := json.Marshal(cmd.AsMap())
		if err != nil {
			return fmt.Errorf("marshalling command: %w", err)
		}
		slog.Info("command confirmed", "command", string(payload))
		return nil
	}

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort)
	healthServer.SetTemplateCount(len(set.Grammars()))
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	healthServer.SetReady(true)
	slog.Info("gpsrd ready",
		"capture", cfg.Speech.Capture.Backend,
		"output", cfg.Speech.Output.Backend,
		"health_port", cfg.Server.HealthPort)

	// Run the interaction loop until a shutdown signal arrives.
	l := loop.New(capturer, speaker, m, f, consumer)
	if err := l.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("interaction loop failed", "error", err)
	}

	slog.Info("gpsrd stopped")
}
