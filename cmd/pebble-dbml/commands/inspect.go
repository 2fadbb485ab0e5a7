package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/marshallshelly/pebble-dbml/cmd/pebble-dbml/output"
	"github.com/marshallshelly/pebble-dbml/pkg/generator"
	"github.com/marshallshelly/pebble-dbml/pkg/registry"
	"github.com/spf13/cobra"
)

var jsonOutput bool

// inspectCmd shows how each selected model will be rendered
var inspectCmd = &cobra.Command{
	Use:   "inspect [app_label[.ModelName] ...]",
	Short: "Show the fields, kinds and DBML types of the selected models",
	Long: `Inspect lists every field of the selected models with its declared kind,
the role it plays and the DBML type it maps to, without rendering DBML.

Examples:
  pebble-dbml inspect --models ./internal/models
  pebble-dbml inspect --manifest models.yaml library.Book --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// FieldReport describes one field as the generator sees it.
type FieldReport struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Kind     string `json:"kind"`
	DBMLType string `json:"dbml_type,omitempty"`
	Flags    string `json:"flags,omitempty"`
	Related  string `json:"related,omitempty"`
}

// ModelReport describes one model and the table it becomes.
type ModelReport struct {
	Model  string        `json:"model"`
	Table  string        `json:"table"`
	Module string        `json:"module,omitempty"`
	Fields []FieldReport `json:"fields"`
}

func runInspect(w io.Writer, selectors []string) error {
	selected, err := selectModels(selectors)
	if err != nil {
		return err
	}

	gen, err := newAssembler()
	if err != nil {
		return err
	}

	reports := make([]ModelReport, 0, len(selected))
	for _, m := range selected {
		report, err := inspectModel(gen, m)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	output.Section(fmt.Sprintf("Models (%d)", len(reports)))
	fields := 0
	for _, report := range reports {
		printReport(w, report)
		fields += len(report.Fields)
	}
	output.Muted("%d models, %d fields", len(reports), fields)
	return nil
}

func inspectModel(gen *generator.Assembler, m *registry.Model) (ModelReport, error) {
	table, err := gen.TableName(m)
	if err != nil {
		return ModelReport{}, err
	}

	report := ModelReport{Model: m.Label(), Table: table, Module: m.Module}
	for _, f := range m.Fields {
		fr := FieldReport{Name: f.Name, Type: f.Type, Kind: f.Kind.String()}

		switch {
		case f.Kind.IsReference():
			if f.Related != nil {
				fr.Related = f.Related.Label() + "." + f.Target()
			}
		case f.Kind == registry.KindColumn:
			column, err := gen.Column(f)
			if err != nil {
				return ModelReport{}, err
			}
			fr.DBMLType = column.Type
			fr.Flags = flags(column.Null, column.PK, column.Unique)
		}

		report.Fields = append(report.Fields, fr)
	}
	return report, nil
}

func flags(null, pk, unique bool) string {
	var out []string
	if null {
		out = append(out, "null")
	}
	if pk {
		out = append(out, "pk")
	}
	if unique {
		out = append(out, "unique")
	}
	return strings.Join(out, ",")
}

func printReport(w io.Writer, report ModelReport) {
	_, _ = fmt.Fprintf(w, "%s -> %s\n", report.Model, report.Table)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\tFIELD\tDECLARED\tDBML TYPE\tFLAGS\tRELATED")
	for _, f := range report.Fields {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			output.KindIcon(f.Kind),
			f.Name,
			f.Type,
			orDash(f.DBMLType),
			orDash(f.Flags),
			orDash(f.Related),
		)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintln(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
