package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/config"
	"github.com/palmtools/palminfo/pkg/metadata"
	"github.com/palmtools/palminfo/pkg/prompt"
)

const promptTitle = "Zeiss PALM Roi IO"

func NewReadCommand() *cobra.Command {
	var (
		charset        string
		asJSON         bool
		nonInteractive bool
		remember       bool
		assignments    []string
	)

	cmd := &cobra.Command{
		Use:     "read [description-file]",
		Short:   "Read the calibration of an image description",
		GroupID: gBasic,
		Long: `Read the calibration of an image description.

The file holds the description text of a PALM image. If it carries PALM
metadata, the image size and stage position are read from it. Otherwise, or
without a file, every value is asked for. The zero stage position is never
part of the metadata and is always asked for.

Press enter to keep the value shown in brackets, or type q to cancel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if charset == "" {
				charset = conf.Charset()
			}
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

			var next calibration.FieldSource = prompt.New(promptTitle, os.Stdin, os.Stderr)
			if nonInteractive || !prompt.IsInteractive() {
				logrus.Debug("not asking, using defaults for missing values")
				next = &calibration.ValueSource{}
			}
			src := &overrideSource{values: overrides, next: next}

			b := calibration.NewBuilder(conf.Defaults(), src)
			if err := b.Read(cmd.Context(), text); err != nil {
				return fmt.Errorf("failed to read calibration: %w", err)
			}
			r, _ := b.Result()

			if remember {
				conf.SetDefaults(calibration.Defaults(r.Raw))
				if err := conf.Save(); err != nil {
					return fmt.Errorf("failed to save defaults: %w", err)
				}
				logrus.Infof("saved values as defaults to %s", configPath)
			}

			return printResult(cmd.OutOrStdout(), &r, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&charset, "charset", "", "charset of the description file (auto, utf-8, utf-16le, utf-16be, iso-8859-1, windows-1252); defaults to the config")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	f.BoolVar(&nonInteractive, "non-interactive", false, "never prompt, use defaults for missing values")
	f.BoolVar(&remember, "remember", false, "save the values used as the new defaults")
	f.StringArrayVar(&assignments, "set", nil, "answer a field without prompting, as label=value (e.g. Zero_StagePosition_X-coordinate=118)")

	return cmd
}

func NewFieldCommand() *cobra.Command {
	var charset string

	cmd := &cobra.Command{
		Use:     "field <description-file> <label>",
		Short:   "Print the raw value of one tagged field",
		GroupID: gAdvanced,
		Long: `Print the raw value of one tagged field.

The label is the content of the opening tag, e.g. 'SizeX Type="Pixel"'.
Labels with non-ASCII characters are retried with those characters replaced
by U+FFFD, as happens to the micron sign when the wrong charset was used.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDescription(args[0], charset)
			if err != nil {
				return err
			}

			field := metadata.ExtractFieldTolerant(metadata.Clean(text), args[1])
			if field == "" {
				return fmt.Errorf("field %q not found", args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(field))
			return nil
		},
	}

	cmd.Flags().StringVar(&charset, "charset", metadata.CharsetAuto, "charset of the description file")

	return cmd
}
