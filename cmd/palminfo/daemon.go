package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palmtools/palminfo/pkg/daemon"
	"github.com/palmtools/palminfo/pkg/version"
)

var (
	// allowNonRootAccess indicates whether other users may access the daemon socket.
	allowNonRootAccess = false
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run palminfo daemon in the foreground",
		GroupID: gAdvanced,
		Long: `Run palminfo daemon in the foreground.

The daemon serves calibration reads over HTTP on a unix socket, for tools
that cannot link the Go library. It never prompts: fields missing from a
description are taken from the request overrides or the configured defaults.
Send SIGHUP to reload the config file.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("palminfo daemon starting")
			return daemon.Run(configPath, unixSocketPath, allowNonRootAccess)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&allowNonRootAccess, "allow-non-root-access", false,
		"Allow other users to access the daemon.")

	return cmd
}
