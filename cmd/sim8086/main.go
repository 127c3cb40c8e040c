// Package main provides the entry point for sim8086.
// sim8086 decodes, disassembles and executes a raw 8086 program image.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"

	"github.com/wolframtungsten678/8086-Decompiler/config"
	"github.com/wolframtungsten678/8086-Decompiler/emu"
	"github.com/wolframtungsten678/8086-Decompiler/insts"
	"github.com/wolframtungsten678/8086-Decompiler/loader"
	"github.com/wolframtungsten678/8086-Decompiler/report"
)

func main() {
	atexit.Exit(run(os.Args[1:], bufferOutput(os.Stdout), os.Stderr))
}

// fileWriter buffers writes to a file. It keeps the file descriptor
// visible so terminal detection still sees the file.
type fileWriter struct {
	*bufio.Writer
	file *os.File
}

// Fd returns the descriptor of the underlying file.
func (w *fileWriter) Fd() uintptr {
	return w.file.Fd()
}

// bufferOutput wraps f in a buffer that is flushed when the process exits
// through atexit.
func bufferOutput(f *os.File) *fileWriter {
	w := &fileWriter{Writer: bufio.NewWriter(f), file: f}
	atexit.Register(func() {
		_ = w.Flush()
	})
	return w
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sim8086", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "Path to run configuration JSON file")
		maxInsts   = fs.Uint64("max", 0, "Stop after this many instructions (0 = no limit)")
		effects    = fs.Bool("effects", false, "Print the register written by each instruction")
		jsonLog    = fs.Bool("json-log", false, "Write logs as JSON")
		verbose    = fs.Bool("v", false, "Verbose output")
		plain      = fs.Bool("plain", false, "Print the final state as name: value lines")
		clocks     = fs.Bool("clocks", false, "Estimate 8086 clock counts")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sim8086 [options] <program.bin>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	// Flags given on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max":
			cfg.MaxInstructions = *maxInsts
		case "effects":
			cfg.ShowEffects = *effects
		case "json-log":
			if *jsonLog {
				cfg.LogFormat = config.LogFormatJSON
			}
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		case "plain":
			cfg.Plain = *plain
		case "clocks":
			cfg.EstimateClocks = *clocks
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	logger := newLogger(cfg, stderr)

	programPath := fs.Arg(0)
	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	logger.Debug("loaded", "program", programPath, "bytes", prog.Len())

	tracer := report.NewTraceWriter(stdout,
		report.WithEffects(cfg.ShowEffects),
		report.WithColor(colorEnabled(cfg.Color, stdout)),
	)

	opts := append(cfg.EmulatorOptions(),
		emu.WithLogger(logger),
		emu.WithTracer(tracer),
	)
	emulator := emu.NewEmulator(opts...)
	if err := emulator.LoadProgram(prog.Code); err != nil {
		fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := emulator.Run(ctx)

	var decodeErr *insts.DecodeError
	if errors.As(runErr, &decodeErr) {
		logger.Info("run stopped",
			"program", programPath,
			"instructions", emulator.InstructionCount())
		fmt.Fprintf(stderr, "Decode error: %v\n", runErr)
		return 1
	}

	style := report.DetectStyle(stdout, cfg.Plain)
	if err := report.WriteState(stdout, emulator.RegFile(), style); err != nil {
		fmt.Fprintf(stderr, "Error writing state: %v\n", err)
		return 1
	}

	if cfg.EstimateClocks {
		if err := report.WriteClocks(stdout, emulator.InstructionCount(), emulator.ClockCount()); err != nil {
			fmt.Fprintf(stderr, "Error writing state: %v\n", err)
			return 1
		}
	}

	logger.Info("run finished",
		"program", programPath,
		"instructions", emulator.InstructionCount(),
		"clocks", emulator.ClockCount())

	if runErr != nil {
		fmt.Fprintf(stderr, "Emulation error: %v\n", runErr)
		return 1
	}

	if err := tracer.Err(); err != nil {
		fmt.Fprintf(stderr, "Error writing trace: %v\n", err)
		return 1
	}

	return 0
}

func loadConfig(path string) (*config.RunConfig, error) {
	if path == "" {
		return config.DefaultRunConfig(), nil
	}
	return config.LoadConfig(path)
}

func newLogger(cfg *config.RunConfig, w io.Writer) *slog.Logger {
	// Validate has already checked the level.
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return report.IsTerminal(w)
	}
}
