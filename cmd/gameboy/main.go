package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/Renz456/GameBoy/gb"
	"github.com/Renz456/GameBoy/gb/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "gameboy"
	app.Description = "A headless Game Boy CPU/PPU emulator core"
	app.Usage = "gameboy [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("emulator failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be positive")
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	if snapshotInterval > 0 && snapshotDir == "" {
		snapshotDir, err = os.MkdirTemp("", "gameboy-snapshots-*")
		if err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if snapshotDir != "" {
		if err := os.MkdirAll(snapshotDir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	machine := gb.New()
	machine.LoadROM(rom)

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	slog.Info("running", "rom", romPath, "frames", frames, "snapshot_interval", snapshotInterval)

	for i := 0; i < frames; i++ {
		if err := machine.RunFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}

		if snapshotInterval > 0 && (i+1)%snapshotInterval == 0 {
			path := filepath.Join(snapshotDir, fmt.Sprintf("%s_frame_%d.txt", romName, i+1))
			if err := saveFrameSnapshot(machine, path); err != nil {
				slog.Error("failed to save snapshot", "frame", i+1, "path", path, "error", err)
			} else {
				slog.Info("saved frame snapshot", "frame", i+1, "path", path)
			}
		}

		if i%10 == 0 {
			slog.Debug("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("done", "frames", frames, "cycles", machine.CPU().Cycles())
	return nil
}

// saveFrameSnapshot writes the current frame as text art, one rune per
// pixel.
func saveFrameSnapshot(machine *gb.GameBoy, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintf(file, "# Game Boy frame snapshot\n")
	fmt.Fprintf(file, "# Frame: %d\n", machine.Frames())
	fmt.Fprintf(file, "# Resolution: %dx%d pixels\n", video.FramebufferWidth, video.FramebufferHeight)
	fmt.Fprintf(file, "# Legend: █=black ▓=dark ▒=light ░=white\n")
	fmt.Fprintf(file, "#\n")

	fb := machine.Framebuffer()
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			// the red channel identifies the shade
			var ch rune
			switch fb[(y*video.FramebufferWidth+x)*4] {
			case 0x00:
				ch = '█'
			case 0x77:
				ch = '▓'
			case 0xCC:
				ch = '▒'
			default:
				ch = '░'
			}
			fmt.Fprintf(file, "%c", ch)
		}
		fmt.Fprintln(file)
	}
	return nil
}
