// Package config holds the run configuration of the simulator.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/wolframtungsten678/8086-Decompiler/emu"
	"github.com/wolframtungsten678/8086-Decompiler/insts"
	"github.com/wolframtungsten678/8086-Decompiler/timing/latency"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Color modes for the trace.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// RunConfig holds the settings of one simulator run.
type RunConfig struct {
	// MaxInstructions stops the run after this many instructions.
	// 0 means no limit. Default: 1,000,000.
	MaxInstructions uint64 `json:"max_instructions"`

	// ShowEffects prints "<reg> new value is: <n>" after each instruction
	// that writes a register. Default: false.
	ShowEffects bool `json:"show_effects"`

	// LogLevel is one of trace, debug, info, warn, error. Default: warn.
	LogLevel string `json:"log_level"`

	// LogFormat is text or json. Default: text.
	LogFormat string `json:"log_format"`

	// Plain prints the final dump as "name: value" lines even on a
	// terminal. Default: false.
	Plain bool `json:"plain"`

	// Color is auto, always or never. Default: auto.
	Color string `json:"color"`

	// CarryOverUnmapped decodes an unmapped opcode with the previous
	// instruction's kind and mnemonic instead of stopping. Default: false.
	CarryOverUnmapped bool `json:"carry_over_unmapped"`

	// EstimateClocks accumulates 8086 clock counts and prints the total
	// after the final dump. Default: false.
	EstimateClocks bool `json:"estimate_clocks"`

	// Timing overrides the clock counts used by EstimateClocks. nil uses
	// the 8086 defaults.
	Timing *latency.TimingConfig `json:"timing,omitempty"`
}

// DefaultRunConfig returns a RunConfig with default values.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		MaxInstructions:   1_000_000,
		ShowEffects:       false,
		LogLevel:          "warn",
		LogFormat:         LogFormatText,
		Plain:             false,
		Color:             ColorAuto,
		CarryOverUnmapped: false,
		EstimateClocks:    false,
	}
}

// LoadConfig loads a RunConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config file: %w", err)
	}

	config := DefaultRunConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse run config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a RunConfig to a JSON file.
func (c *RunConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run config file: %w", err)
	}

	return nil
}

// Validate checks that the enumerated settings hold known values and that
// any timing override is valid.
func (c *RunConfig) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q, got %q", LogFormatText, LogFormatJSON, c.LogFormat)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}

	if c.Timing != nil {
		if err := c.Timing.Validate(); err != nil {
			return fmt.Errorf("timing: %w", err)
		}
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *RunConfig) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "trace":
		return emu.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("log_level must be trace, debug, info, warn or error, got %q", c.LogLevel)
}

// EmulatorOptions translates the configuration into emulator options.
func (c *RunConfig) EmulatorOptions() []emu.EmulatorOption {
	opts := []emu.EmulatorOption{
		emu.WithMaxInstructions(c.MaxInstructions),
	}

	if c.CarryOverUnmapped {
		opts = append(opts, emu.WithDecoderOptions(insts.WithCarryOverUnmapped()))
	}

	if c.EstimateClocks {
		table := latency.NewTable()
		if c.Timing != nil {
			table = latency.NewTableWithConfig(c.Timing.Clone())
		}
		opts = append(opts, emu.WithClockModel(table))
	}

	return opts
}

// Clone returns a copy of the RunConfig.
func (c *RunConfig) Clone() *RunConfig {
	clone := *c
	if c.Timing != nil {
		clone.Timing = c.Timing.Clone()
	}
	return &clone
}
