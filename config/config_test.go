package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolframtungsten678/8086-Decompiler/config"
	"github.com/wolframtungsten678/8086-Decompiler/emu"
	"github.com/wolframtungsten678/8086-Decompiler/timing/latency"
)

var _ = Describe("RunConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			c := config.DefaultRunConfig()
			Expect(c.Validate()).To(Succeed())
		})

		It("should have sensible defaults", func() {
			c := config.DefaultRunConfig()
			Expect(c.MaxInstructions).To(Equal(uint64(1_000_000)))
			Expect(c.ShowEffects).To(BeFalse())
			Expect(c.LogFormat).To(Equal(config.LogFormatText))
			Expect(c.Color).To(Equal(config.ColorAuto))
			Expect(c.CarryOverUnmapped).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		var c *config.RunConfig

		BeforeEach(func() {
			c = config.DefaultRunConfig()
		})

		It("should reject an unknown log level", func() {
			c.LogLevel = "loud"
			Expect(c.Validate()).To(MatchError(ContainSubstring("log_level")))
		})

		It("should reject an unknown log format", func() {
			c.LogFormat = "xml"
			Expect(c.Validate()).To(MatchError(ContainSubstring("log_format")))
		})

		It("should reject an unknown color mode", func() {
			c.Color = "sometimes"
			Expect(c.Validate()).To(MatchError(ContainSubstring("color")))
		})

		It("should reject an invalid timing override", func() {
			c.Timing = latency.DefaultTimingConfig()
			c.Timing.ArithRegReg = 0
			Expect(c.Validate()).To(MatchError(ContainSubstring("timing: arith_reg_reg")))
		})
	})

	Describe("SlogLevel", func() {
		DescribeTable("levels",
			func(name string, want slog.Level) {
				c := config.DefaultRunConfig()
				c.LogLevel = name

				level, err := c.SlogLevel()
				Expect(err).NotTo(HaveOccurred())
				Expect(level).To(Equal(want))
			},
			Entry("trace", "trace", emu.LevelTrace),
			Entry("debug", "debug", slog.LevelDebug),
			Entry("info", "info", slog.LevelInfo),
			Entry("warn", "warn", slog.LevelWarn),
			Entry("error", "error", slog.LevelError),
		)
	})

	Describe("EmulatorOptions", func() {
		It("should carry the instruction limit", func() {
			c := config.DefaultRunConfig()
			c.MaxInstructions = 3

			e := emu.NewEmulator(c.EmulatorOptions()...)
			Expect(e.LoadProgram([]byte{0x74, 0xFE})).To(Succeed())
			e.RegFile().Flags = emu.FlagZ

			for i := 0; i < 3; i++ {
				Expect(e.Step().Err).NotTo(HaveOccurred())
			}
			Expect(e.Step().Err).To(MatchError(emu.ErrMaxInstructions))
		})

		It("should enable carry-over decoding", func() {
			c := config.DefaultRunConfig()
			c.CarryOverUnmapped = true

			e := emu.NewEmulator(c.EmulatorOptions()...)
			Expect(e.LoadProgram([]byte{0x01, 0xD8, 0x90, 0xC0})).To(Succeed())

			Expect(e.Step().Err).NotTo(HaveOccurred())
			result := e.Step()
			Expect(result.Err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("add al, al"))
		})

		It("should leave clock estimation off by default", func() {
			e := emu.NewEmulator(config.DefaultRunConfig().EmulatorOptions()...)
			Expect(e.LoadProgram([]byte{0xB8, 0x05, 0x00})).To(Succeed())

			Expect(e.Step().Clocks).To(BeZero())
		})

		It("should estimate clocks with the timing override", func() {
			c := config.DefaultRunConfig()
			c.EstimateClocks = true
			c.Timing = latency.DefaultTimingConfig()
			c.Timing.MovRegImm = 7

			e := emu.NewEmulator(c.EmulatorOptions()...)
			Expect(e.LoadProgram([]byte{0xB8, 0x05, 0x00, 0x89, 0xC3})).To(Succeed())
			Expect(e.Run(context.Background())).To(Succeed())

			Expect(e.ClockCount()).To(Equal(uint64(7 + 2)))
		})
	})

	Describe("Clone", func() {
		It("should return an independent copy", func() {
			c := config.DefaultRunConfig()
			clone := c.Clone()
			clone.MaxInstructions = 7

			Expect(c.MaxInstructions).To(Equal(uint64(1_000_000)))
			Expect(clone.LogLevel).To(Equal(c.LogLevel))
		})

		It("should copy the timing override", func() {
			c := config.DefaultRunConfig()
			c.Timing = latency.DefaultTimingConfig()

			clone := c.Clone()
			clone.Timing.JumpTaken = 99

			Expect(c.Timing.JumpTaken).To(Equal(uint64(16)))
		})
	})

	Describe("Save and Load", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			path := filepath.Join(tempDir, "run.json")
			c := config.DefaultRunConfig()
			c.ShowEffects = true
			c.LogLevel = "debug"

			Expect(c.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(c))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			err := os.WriteFile(path, []byte(`{"max_instructions": 50}`), 0644)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MaxInstructions).To(Equal(uint64(50)))
			Expect(loaded.LogFormat).To(Equal(config.LogFormatText))
		})

		It("should return error for non-existent file", func() {
			_, err := config.LoadConfig("/nonexistent/path/run.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
