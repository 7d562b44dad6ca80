package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nwhitehead/emu8080/audio"
	"github.com/nwhitehead/emu8080/cpm"
	"github.com/nwhitehead/emu8080/cpu"
	"github.com/nwhitehead/emu8080/debug"
	"github.com/nwhitehead/emu8080/dis/disassembler"
	"github.com/nwhitehead/emu8080/input"
	"github.com/nwhitehead/emu8080/machine"
	"github.com/nwhitehead/emu8080/video"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "emu8080",
		Short: "Intel 8080 interpreter and Space Invaders arcade host",
	}

	rootCmd.AddCommand(
		spaceInvadersCmd(),
		cpmCmd(),
		disCmd(),
		debugCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func spaceInvadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spaceinvaders FILE",
		Short: "Run the arcade host against a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load ROM: %w", err)
			}

			mem := cpu.NewMemory()
			if err := mem.LoadROM(rom, 0); err != nil {
				return err
			}

			disp, err := video.NewSDLDisplay("Space Invaders", 3)
			if err != nil {
				return fmt.Errorf("open display: %w", err)
			}
			defer disp.Close()

			snd, err := audio.NewSDLSoundBank(filepath.Dir(args[0]))
			if err != nil {
				return fmt.Errorf("load sounds: %w", err)
			}
			defer snd.Close()

			in := input.NewSDLSource()

			m := machine.NewSpaceInvaders(mem, disp, snd, in)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if err := m.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
}

func cpmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpm FILE",
		Short: "Run a CP/M diagnostic ROM loaded at 0x0100",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load ROM: %w", err)
			}

			m, err := cpm.NewMachine(rom, os.Stdout)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			return m.Run(ctx)
		},
	}
}

func disCmd() *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "dis FILE",
		Short: "Disassemble a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load ROM: %w", err)
			}

			mem := cpu.NewMemory()
			if err := mem.LoadROM(data, 0); err != nil {
				return err
			}

			fmt.Print(disassembler.DisassembleMemory(mem, offset, len(data)-offset))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "byte offset to start disassembling from")
	return cmd
}

func debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug FILE",
		Short: "Step through a ROM image in an interactive monitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load ROM: %w", err)
			}
			return debug.Run(rom)
		},
	}
}

