package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/palmtools/palminfo/pkg/client"
	"github.com/palmtools/palminfo/pkg/metadata"
	"github.com/palmtools/palminfo/pkg/types"
)

func NewRemoteCommand() *cobra.Command {
	var (
		charset     string
		asJSON      bool
		cancel      bool
		assignments []string
	)

	cmd := &cobra.Command{
		Use:     "remote [description-file]",
		Short:   "Read the calibration through the palminfo daemon",
		GroupID: gAdvanced,
		Long: `Read the calibration through the palminfo daemon.

Works like 'read', but the description is sent to the daemon, which answers
missing values from --set or its configured defaults instead of prompting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			text, err := readDescription(file, charset)
			if err != nil {
				return err
			}

			overrides, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			apiClient := client.NewClient(unixSocketPath)
			r, err := apiClient.Read(types.ReadRequest{
				Description: text,
				Overrides:   overrides,
				Cancel:      cancel,
			})
			if err != nil {
				return fmt.Errorf("failed to read calibration: %w", err)
			}

			return printResult(cmd.OutOrStdout(), r, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&charset, "charset", metadata.CharsetAuto, "charset of the description file")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	f.BoolVar(&cancel, "cancel", false, "behave as if the input form was dismissed")
	f.StringArrayVar(&assignments, "set", nil, "answer a field, as label=value")
	_ = f.MarkHidden("cancel")

	return cmd
}
