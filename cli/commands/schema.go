package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/frm-go/cli/internal/ui"
	"github.com/satishbabariya/frm-go/schema"
)

// tableView is the printable form of a schema entry.
type tableView struct {
	Record  string       `json:"record" yaml:"record"`
	Table   string       `json:"table" yaml:"table"`
	Columns []columnView `json:"columns" yaml:"columns"`
}

type columnView struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Storage    string `json:"storage" yaml:"storage"`
	PrimaryKey bool   `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	References string `json:"references,omitempty" yaml:"references,omitempty"`
}

func viewOf(entry *schema.Entry) tableView {
	view := tableView{Record: entry.Record(), Table: entry.Table()}
	for _, c := range entry.Columns() {
		col := columnView{
			Name:       c.Name,
			Type:       c.Type.String(),
			Storage:    string(c.Storage),
			PrimaryKey: c.PrimaryKey,
		}
		if !c.References.IsZero() {
			col.References = c.References.String()
		}
		view.Columns = append(view.Columns, col)
	}
	return view
}

func newSchemaCommand(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the tables derived from the record declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Format
			}
			p, err := loadProject(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			views := make([]tableView, 0, len(p.entries))
			for _, e := range p.entries {
				views = append(views, viewOf(e))
			}
			return printSchema(cmd.OutOrStdout(), views, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml, markdown)")
	return cmd
}

func printSchema(w io.Writer, views []tableView, format string) error {
	switch format {
	case "text":
		for _, v := range views {
			ui.PrintSection(w, fmt.Sprintf("%s (%s)", v.Table, v.Record))
			rows := make([][]string, 0, len(v.Columns))
			for _, c := range v.Columns {
				rows = append(rows, []string{c.Name, c.Storage, yesNo(c.PrimaryKey), c.References})
			}
			table, err := ui.RenderTable([]string{"Column", "Type", "PK", "References"}, rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, table)
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	case "markdown":
		out, err := ui.RenderMarkdown(schemaMarkdown(views))
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json, yaml or markdown)", format)
	}
}

func schemaMarkdown(views []tableView) string {
	var b strings.Builder
	for _, v := range views {
		fmt.Fprintf(&b, "## %s\n\nRecord `%s`.\n\n", v.Table, v.Record)
		b.WriteString("| Column | Type | PK | References |\n|---|---|---|---|\n")
		for _, c := range v.Columns {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Name, c.Storage, yesNo(c.PrimaryKey), c.References)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
