package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = "/tmp/palminfo.sock"
	configPath     = defaultConfigPath()
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "palminfo.json"
	}
	return filepath.Join(dir, "palminfo.json")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, calibration.ErrUserCancelled):
		fmt.Fprintln(os.Stderr, "\nCancelled: no calibration was read.")
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: palminfo daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'palminfo daemon' or check '--daemon-socket'.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Restart the daemon with '--allow-non-root-access' to grant permissions to your user")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palminfo",
		Short: "palminfo reads the calibration of Zeiss PALM images",
		Long: `palminfo reads the calibration of Zeiss PALM images.

It extracts the image size in microns and pixels and the stage position from
the description the PALM software writes into its images, and derives the
micron/pixel calibration used to place ROIs on the stage. Values missing from
the description are asked for interactively.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "palminfo daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewReadCommand(),
		NewFieldCommand(),
		NewRemoteCommand(),
		NewWatchCommand(),
		NewConfigCommand(),
		NewDaemonCommand(),
		NewVersionCommand(),
	)

	return cmd
}
