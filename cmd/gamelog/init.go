package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acksell/gamelog/settings"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.SettingsPath
			if path == "" {
				env, err := settings.LoadEnv()
				if err != nil {
					return err
				}
				path = env.SettingsPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return rejectedf("settings file %s already exists (use --force to overwrite)", path)
			}
			s := settings.Default()
			if opts.DataDir != "" {
				s.DataDir = opts.DataDir
			}
			if err := s.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}
