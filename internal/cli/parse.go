package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/filter"
	orgio "github.com/matzehuels/orgchart/pkg/io"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/session"
)

const (
	// maxPrintedWarnings caps the shape warnings listed by parse.
	maxPrintedWarnings = 20

	// topDepartments is the number of departments in the summary table.
	topDepartments = 8
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	format  string // document format: auto, json, yaml
	filter  string // filter criteria applied before summarizing
	output  string // normalized JSON output ("-" for stdout)
	noCache bool   // bypass the HTTP cache for URL inputs
	refresh bool   // refetch URL inputs
}

// parseCommand creates the parse command for validating documents.
func (c *CLI) parseCommand() *cobra.Command {
	var po parseOpts

	cmd := &cobra.Command{
		Use:   "parse [document]",
		Short: "Validate an organization document and summarize it",
		Long: `Validate an organization document and summarize it.

The document is a JSON or YAML object with an optional "children" array, or
an array of such objects. Use "-" to read from stdin, or an http(s) URL.

parse prints a summary table (people, managers, depth, span of control,
largest departments) and lists tolerated shape problems, such as children
that are not objects or people without a name. With -o it writes the
document as normalized JSON (sorted keys, YAML converted).`,
		Example: `  orgchart parse org.yaml
  orgchart parse org.json --filter engineering -o engineering.json
  cat org.json | orgchart parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), cmd, args[0], po)
		},
	}

	cmd.Flags().StringVar(&po.format, "input-format", "auto", "document format: auto, json, yaml")
	cmd.Flags().StringVar(&po.filter, "filter", "", `keep matching people and their managers ("eng" or "department=eng")`)
	cmd.Flags().StringVarP(&po.output, "output", "o", "", `write normalized JSON to this file ("-" for stdout)`)
	cmd.Flags().BoolVar(&po.noCache, "no-cache", false, "disable caching of URL inputs")
	cmd.Flags().BoolVar(&po.refresh, "refresh", false, "refetch URL inputs")

	return cmd
}

// runParse loads the document, prints its summary and optionally writes it
// back as JSON.
func (c *CLI) runParse(ctx context.Context, cmd *cobra.Command, input string, po parseOpts) error {
	format, err := orgio.ParseFormat(po.format)
	if err != nil {
		return err
	}
	criteria, err := session.ParseCriteria(po.filter)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, po.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, err := runner.Load(ctx, pipeline.Options{
		Input:   input,
		Format:  format,
		Refresh: po.refresh,
		Stdin:   cmd.InOrStdin(),
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	s := session.New(
		session.WithLogger(c.Logger),
		session.WithLicenseField(c.Config.Display.LicenseField),
	)
	if _, err := s.Load(doc.Value); err != nil {
		return err
	}
	value := doc.Value
	if !criteria.IsZero() {
		if _, err := s.ApplyFilter(criteria); err != nil {
			return err
		}
		value = filter.Apply(doc.Value, criteria.Predicate())
	}

	if po.output == "-" {
		return orgio.WriteJSON(cmd.OutOrStdout(), value)
	}

	tree := s.Tree()
	printSuccess("Parsed %s", doc.Source)
	if tree.Virtual {
		printDetail("%d top-level entries grouped under a virtual root", len(tree.Root.AllChildren()))
	}
	if !criteria.IsZero() {
		printDetail("Filter: %s", criteria.String())
	}
	fmt.Println(summaryTable(s.Summary(), topDepartments))

	warnings := make([]string, len(tree.Warnings))
	for i, w := range tree.Warnings {
		warnings[i] = w.String()
	}
	printWarnings(warnings, maxPrintedWarnings)

	if po.output != "" {
		if err := orgio.ExportJSON(po.output, value); err != nil {
			return fmt.Errorf("write output %s: %w", po.output, err)
		}
		printFile(po.output)
	}

	printNewline()
	printNextStep("Render", "orgchart render "+input)
	return nil
}
