package cli

import (
	"fmt"

	"github.com/alexanderramin/gymform/internal/cli/formatter"
	"github.com/alexanderramin/gymform/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the configuration file",
		Annotations: map[string]string{skipAppAnnotation: "true"},
	}

	var (
		project bool
		force   bool
	)
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file with default values",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GlobalPath()
			if project {
				path = config.ProjectPath()
			}
			if err := config.Write(path, config.Default(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", formatter.StyleGreen.Render("✔"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&project, "project", false, "write ./gymform.yml instead of the global file")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
