package commands

import (
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/frm-go/cli/internal/config"
	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/query/sqlgen"
)

const sampleSchema = `requires "~> 0.1"

// Students attend courses.
record Student {
  student_id int @pk
  name       text
}

record Course {
  course_id  int @pk
  student_id int @fk(students.student_id)
  title      text
}
`

const sampleQueries = `def attendance():
    return ((s.name, c.title)
            for s in students
            for c in courses
            if s.student_id == c.student_id)
`

type initOptions struct {
	yes bool
}

func newInitCommand(global *globalOptions) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a config file, a sample schema and sample queries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, global, opts, dir)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept the defaults without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, global *globalOptions, opts *initOptions, dir string) error {
	out := cmd.OutOrStdout()

	cfg := &config.Config{
		Provider:    "sqlite",
		DatabaseURL: "frm.db",
		SchemaPath:  "schema.frm",
		QueryPath:   "queries.py",
		Format:      "text",
	}
	if global.provider != "" {
		cfg.Provider = global.provider
	}
	if global.databaseURL != "" {
		cfg.DatabaseURL = global.databaseURL
	}

	if !opts.yes {
		questions := []*survey.Question{
			{
				Name: "provider",
				Prompt: &survey.Select{
					Message: "Database provider:",
					Options: sqlgen.Providers(),
					Default: cfg.Provider,
				},
			},
			{
				Name:     "databaseURL",
				Prompt:   &survey.Input{Message: "Database URL:", Default: cfg.DatabaseURL},
				Validate: survey.Required,
			},
			{
				Name:     "schemaPath",
				Prompt:   &survey.Input{Message: "Schema file:", Default: cfg.SchemaPath},
				Validate: survey.Required,
			},
		}
		answers := struct {
			Provider    string
			DatabaseURL string `survey:"databaseURL"`
			SchemaPath  string `survey:"schemaPath"`
		}{}
		if err := survey.Ask(questions, &answers); err != nil {
			return err
		}
		cfg.Provider = answers.Provider
		cfg.DatabaseURL = answers.DatabaseURL
		cfg.SchemaPath = answers.SchemaPath
	}

	ui.PrintSection(out, "Initializing frm project")

	configPath := filepath.Join(dir, config.FileName)
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return err
	}
	ui.PrintStep(out, 1, 3, "wrote "+configPath)

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(dir, cfg.SchemaPath), sampleSchema},
		{filepath.Join(dir, cfg.QueryPath), sampleQueries},
	}
	for i, f := range files {
		created, err := config.WriteFile(f.path, f.content)
		if err != nil {
			return err
		}
		if created {
			ui.PrintStep(out, i+2, 3, "wrote "+f.path)
		} else {
			ui.PrintWarning(out, "%s already exists, skipping", f.path)
		}
	}

	ui.PrintSuccess(out, "project initialized")
	return nil
}
