// Command rv64iemu is the RV64I emulator's CLI: it generalises the
// teacher repo's three separate single-purpose mains (cmd/vm,
// cmd/interp, cmd/asm) into one Cobra command tree with `run` and `asm`
// subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"rv64iemu/internal/config"
	"rv64iemu/internal/telemetry"
	"rv64iemu/pkg/asmtext"
	"rv64iemu/pkg/cpu"
	"rv64iemu/pkg/debugtui"
)

var (
	flagTrace       bool
	flagInteractive bool
	flagMaxSteps    uint64
	flagConfig      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rv64iemu",
		Short:         "A user-space RV64I instruction-set emulator",
		SilenceUsage:  false,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd(), newAsmCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load a flat binary image and execute it to completion",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().BoolVar(&flagTrace, "trace", false, "log every fetched instruction's disassembly")
	cmd.Flags().BoolVar(&flagInteractive, "interactive", false, "launch the interactive single-step debugger")
	cmd.Flags().Uint64Var(&flagMaxSteps, "max-steps", 0, "stop after N instructions (0 = unlimited); not applied with --interactive")
	cmd.Flags().StringVar(&flagConfig, "config", "", "optional TOML config file")
	return cmd
}

func newAsmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a line-oriented RV64I program to a flat binary image on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsm,
	}
}

func runRun(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	fp, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	defer fp.Close()

	info, err := fp.Stat()
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	if uint64(info.Size()) > cfg.DramSize {
		return fmt.Errorf("rv64iemu: image %d bytes exceeds dram size %d bytes", info.Size(), cfg.DramSize)
	}
	image := make([]byte, info.Size())
	if _, err := io.ReadFull(fp, image); err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}

	trace := flagTrace || cfg.TraceDefault
	logger, err := telemetry.New(trace)
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	defer logger.Sync()

	opts := []cpu.Option{cpu.WithLogger(logger)}
	if flagMaxSteps != 0 {
		opts = append(opts, cpu.WithMaxSteps(flagMaxSteps))
	}
	machine, err := cpu.New(cfg.DramBase, cfg.DramSize, image, opts...)
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}

	switch {
	case flagInteractive:
		p := tea.NewProgram(debugtui.New(machine))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("rv64iemu: %w", err)
		}
	case trace:
		if err := runTraced(machine, logger); err != nil {
			return fmt.Errorf("rv64iemu: %w", err)
		}
	default:
		if err := machine.Run(); err != nil {
			return fmt.Errorf("rv64iemu: %w", err)
		}
	}

	fmt.Print(machine.Dump())
	return nil
}

func runTraced(machine *cpu.CPU, logger *telemetry.Logger) error {
	for {
		if flagMaxSteps != 0 && machine.Steps() >= flagMaxSteps {
			return fmt.Errorf("exceeded max-steps %d without halting", flagMaxSteps)
		}
		inst, err := machine.Fetch()
		if err != nil {
			break
		}
		logger.Infof("trace: pc=%#x inst=%#08x %s", machine.PC(), inst, cpu.Disassemble(inst))
		if err := machine.Step(); err != nil {
			break
		}
	}
	logger.Infof("trace: run complete after %d steps\n%s", machine.Steps(), spew.Sdump(machine))
	return nil
}

func runAsm(_ *cobra.Command, args []string) error {
	fp, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	defer fp.Close()

	image, err := asmtext.Assemble(fp)
	if err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	if _, err := os.Stdout.Write(image); err != nil {
		return fmt.Errorf("rv64iemu: %w", err)
	}
	return nil
}
