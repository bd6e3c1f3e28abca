package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palmtools/palminfo/pkg/calibration"
	"github.com/palmtools/palminfo/pkg/config"
	"github.com/palmtools/palminfo/pkg/metadata"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change the default values",
		GroupID: gBasic,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the defaults offered when a value is asked for",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				conf, err := config.NewFile(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				d := calibration.RawFields(conf.Defaults())
				cmd.Println(bold("Defaults (%s):", configPath))
				for _, name := range calibration.FieldNames {
					v, _ := d.Get(name)
					cmd.Printf("  %s: %s\n", name, bold("%.3f", v))
				}
				cmd.Printf("  charset: %s\n", bold("%s", conf.Charset()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <field> <value>",
			Short: "Change one default",
			Long: `Change one default.

The field is one of the labels shown by 'config show', or 'charset'.`,
			Args: cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				conf, err := config.NewFile(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}

				if err := setConfigValue(conf, args[0], args[1]); err != nil {
					return err
				}
				if err := conf.Save(); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}

				logrus.Infof("successfully set %s to %s", args[0], args[1])
				return nil
			},
		},
	)

	return cmd
}

func setConfigValue(conf config.Config, field, value string) error {
	if field == "charset" {
		if _, err := metadata.Decode(nil, value); err != nil {
			return err
		}
		conf.SetCharset(value)
		return nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %v", value, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid value %q: defaults must be finite", value)
	}

	d := calibration.RawFields(conf.Defaults())
	if !d.Set(field, v) {
		return fmt.Errorf("unknown field %q", field)
	}
	conf.SetDefaults(calibration.Defaults(d))
	return nil
}
