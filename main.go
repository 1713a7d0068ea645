package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "0.2.0"

func main() {
	os.Exit(rvMain())
}

// rvMain runs the command and maps its outcome to an exit status.
func rvMain() int {
	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rv [flags] [FILE]",
		Short: "rv - measure throughput of data through a pipe",
		Long: `rv copies stdin, or FILE, to stdout unmodified and reports the
transfer rate and total on stderr while it runs.

Sizes accept SI and IEC units: 700MB, 4GiB, 1048576.
Every flag can also be set as RV_<FLAG> (e.g. RV_INTERVAL=500ms) or in
$XDG_CONFIG_HOME/rv/config.yaml.`,
		Example: `  yes | rv > /dev/null
  cat file.txt | rv > /dev/null
  rv file.txt > /dev/null
  rv -pte -f disk.img | ssh host 'cat > disk.img'`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, configPath)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fs := cmd.Flags()
	fs.SortFlags = false // Preserve definition order in help
	fs.StringP("file", "f", "", "read from file instead of stdin")
	fs.StringP("size", "s", "", "total bytes expected, enables percent and ETA (e.g. 700MB)")
	fs.BoolP("progress", "p", false, "display a progress bar")
	fs.BoolP("timer", "t", false, "display total elapsed time")
	fs.BoolP("eta", "e", false, "display expected time to completion")
	fs.BoolP("rate", "r", false, "display current transfer rate")
	fs.BoolP("numeric", "n", false, "print numeric progress, one line per sample")
	fs.BoolP("quiet", "q", false, "no status output")
	fs.Duration("interval", defaultInterval, "time between samples")
	fs.Int("chunk-size", defaultChunkSize, "bytes moved per read/write")
	fs.StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rv/config.yaml)")
	fs.String("log-file", "", "write a debug log to this file")
	fs.Bool("debug", false, "log every sample")

	return cmd
}

func run(cmd *cobra.Command, args []string, configPath string) error {
	cfg, err := loadConfig(cmd.Flags(), configPath)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if cmd.Flags().Changed("file") {
			return ErrBothSources
		}
		cfg.File = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	size, _ := cfg.SizeBytes()

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := OpenSource(cfg.File, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.Close()
	if size == 0 {
		size = src.Size
	}

	status := cmd.ErrOrStderr()
	display := cfg.Display()
	display.Width = terminalWidth(status)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := Transfer(ctx, src.Reader, cmd.OutOrStdout(), NewRenderer(status, display, size), Options{
		Interval:  cfg.Interval,
		ChunkSize: cfg.ChunkSize,
		Size:      size,
		Logger:    logger,
	})
	logger.Info().
		Str("source", src.Name).
		Str("state", res.State.String()).
		Uint64("total", uint64(res.Total)).
		Dur("elapsed", res.Elapsed).
		Msg("exit")
	return err
}

// terminalWidth returns the width of w if it is a terminal, or
// defaultTermCols otherwise.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTermCols
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermCols
	}
	return width
}
