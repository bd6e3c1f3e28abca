package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palmtools/palminfo/pkg/client"
	"github.com/palmtools/palminfo/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print calibration reads served by the daemon as they happen",
		GroupID: gAdvanced,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			apiClient := client.NewClient(unixSocketPath)
			ch, err := apiClient.SubscribeEvents(ctx)
			if err != nil {
				return err
			}

			for ev := range ch {
				if ev.Name != events.CalibrationRead {
					logrus.WithField("event", ev.Name).Debug("ignoring event")
					continue
				}
				payload, err := events.DecodeAs[events.CalibrationReadEvent](ev)
				if err != nil {
					logrus.WithError(err).Error("failed to decode calibration.read event")
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatReadEvent(payload))
			}
			return nil
		},
	}
}

func formatReadEvent(e events.CalibrationReadEvent) string {
	result := color.GreenString("%s", e.Result)
	if e.Result != "ok" {
		result = color.RedString("%s", e.Result)
	}

	s := fmt.Sprintf("%s %s from %s", time.Unix(e.Ts, 0).Format(time.TimeOnly), result, e.Path)
	if len(e.Missing) > 0 {
		s += ", missing: " + strings.Join(e.Missing, ", ")
	}
	return s
}
