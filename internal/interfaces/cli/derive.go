package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/application/derivative"
	domainDrv "github.com/turtacn/dockprep/internal/domain/derivative"
	"github.com/turtacn/dockprep/internal/domain/substituent"
	"github.com/turtacn/dockprep/pkg/errors"
)

// generationView renders a GenerationResult.
type generationView struct {
	*derivative.GenerationResult
}

func (v generationView) String() string {
	return fmt.Sprintf("%d derivatives of %s (%s) written to %s [batch %s]",
		v.Count, v.Template, v.Pattern, v.OutputDir, v.BatchID)
}

func (v generationView) TableHeaders() []string { return []string{"INDEX", "LOCATION"} }

func (v generationView) TableRows() [][]string {
	rows := make([][]string, len(v.Locations))
	for i, loc := range v.Locations {
		rows[i] = []string{strconv.Itoa(i), loc}
	}
	return rows
}

// batchView renders the results of a batch.
type batchView []*derivative.GenerationResult

func (v batchView) TableHeaders() []string {
	return []string{"BATCH", "PATTERN", "COUNT", "OUTPUT_DIR", "TEMPLATE"}
}

func (v batchView) TableRows() [][]string {
	rows := make([][]string, len(v))
	for i, r := range v {
		rows[i] = []string{r.BatchID, r.Pattern.String(), strconv.Itoa(r.Count), r.OutputDir, r.Template}
	}
	return rows
}

// NewDeriveCmd returns "derive TEMPLATE OUTPUT_DIR" and its "batch" subcommand.
func NewDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive TEMPLATE OUTPUT_DIR",
		Short: "Expand a template and write every derivative as {index}.{ext}",
		Long: "Expand an R-group template against the substituent table and persist each\n" +
			"derivative through the configured sink (derivatives.sink) in the configured\n" +
			"format (derivatives.format).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			svc, cleanup, err := cliCtx.Deps.DerivativeService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.GenerateAndPersist(ctx, args[0], args[1])
			if err != nil {
				if result != nil && len(result.Locations) > 0 {
					PrintWarning(cmd, fmt.Sprintf("%d of %d derivatives were written before the failure",
						len(result.Locations), result.Count))
				}
				return err
			}
			if result.Count == 0 {
				PrintWarning(cmd, fmt.Sprintf("template %q produced no derivatives", args[0]))
			}
			return PrintResult(cmd, generationView{result})
		},
	}
	cmd.AddCommand(newDeriveBatchCmd(), newDeriveRequestCmd())
	return cmd
}

func newDeriveRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request TEMPLATE OUTPUT_DIR",
		Short: "Queue a generation for the worker instead of running it here",
		Long: "Publish a derivatives.requested event on kafka.request_topic.  A running\n" +
			"worker expands the template and persists the derivatives; completion is\n" +
			"announced on kafka.topic (see \"events tail\").",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(args[0]) == "" {
				return errors.New(errors.ErrCodeTemplateEmpty, "template must not be empty")
			}
			pub, err := cliCtx.Deps.RequestPublisher(cliCtx)
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			req := domainDrv.GenerationRequested{
				RequestID:   uuid.NewString(),
				Template:    args[0],
				OutputDir:   args[1],
				RequestedAt: time.Now().UTC(),
			}
			if err := pub.PublishGenerationRequested(ctx, req); err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, req)
			}
			PrintSuccess(cmd, fmt.Sprintf("queued on %s", pub.Topic()))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), req.RequestID)
			return err
		},
	}
}

func newDeriveBatchCmd() *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run every job of a YAML manifest in parallel",
		Long: "Run the jobs listed in a manifest:\n\n" +
			"  output_root: out\n" +
			"  jobs:\n" +
			"    - template: \"[R]c1ccccc1\"\n" +
			"      output_dir: phenyl\n\n" +
			"Jobs run concurrently, bounded by derivatives.concurrency.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			manifest, err := derivative.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			svc, cleanup, err := cliCtx.Deps.DerivativeService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := svc.GenerateBatch(ctx, manifest.Jobs)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Count == 0 {
					PrintWarning(cmd, fmt.Sprintf("template %q produced no derivatives", r.Template))
				}
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, results)
			}
			return printTable(cmd, batchView(results))
		},
	}
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "batch manifest (YAML)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

// expansionView renders an in-memory expansion one SMILES per line.
type expansionView struct {
	*derivative.ExpansionResult
}

func (v expansionView) TableHeaders() []string { return []string{"INDEX", "SMILES"} }

func (v expansionView) TableRows() [][]string {
	rows := make([][]string, len(v.Derivatives))
	for i, s := range v.Derivatives {
		rows[i] = []string{strconv.Itoa(i), s}
	}
	return rows
}

// NewExpandCmd returns "expand TEMPLATE", which prints derivatives without
// writing them.
func NewExpandCmd() *cobra.Command {
	var (
		countOnly bool
		limit     int64
	)
	cmd := &cobra.Command{
		Use:   "expand TEMPLATE",
		Short: "Print every derivative of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			svc, cleanup, err := cliCtx.Deps.DerivativeService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			if countOnly {
				res, err := svc.Count(ctx, args[0])
				if err != nil {
					return err
				}
				if strings.EqualFold(cliCtx.OutputFormat, "json") {
					return printJSON(cmd, res)
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Count)
				return nil
			}

			res, err := svc.Expand(ctx, &derivative.ExpandInput{Template: args[0], Limit: limit})
			if err != nil {
				return err
			}
			if res.Count == 0 {
				PrintWarning(cmd, fmt.Sprintf("template %q produced no derivatives", args[0]))
			}
			switch strings.ToLower(cliCtx.OutputFormat) {
			case "json":
				return printJSON(cmd, res)
			case "table":
				return printTable(cmd, expansionView{res})
			default:
				return printText(cmd, res.Derivatives)
			}
		},
	}
	cmd.Flags().BoolVar(&countOnly, "count", false, "only print how many derivatives would be produced")
	cmd.Flags().Int64Var(&limit, "limit", 0, "refuse templates expanding to more derivatives (0 uses derivatives.max_count)")
	return cmd
}

// classificationView renders a template classification.
type classificationView struct {
	Template    string            `json:"template"`
	Placeholder string            `json:"placeholder"`
	Pattern     domainDrv.Pattern `json:"pattern"`
	Occurrences int               `json:"occurrences"`
	Interior    int               `json:"interior_sites"`
	Segments    []string          `json:"segments"`
}

func (v classificationView) String() string {
	pattern := v.Pattern.String()
	if v.Pattern == domainDrv.PatternEmpty {
		pattern = color.YellowString(pattern)
	} else {
		pattern = color.CyanString(pattern)
	}
	return fmt.Sprintf("%s: %s (%d placeholders, %d interior)", v.Template, pattern, v.Occurrences, v.Interior)
}

func (v classificationView) TableHeaders() []string {
	return []string{"PATTERN", "OCCURRENCES", "INTERIOR", "TEMPLATE"}
}

func (v classificationView) TableRows() [][]string {
	return [][]string{{v.Pattern.String(), strconv.Itoa(v.Occurrences), strconv.Itoa(v.Interior), v.Template}}
}

// NewClassifyCmd returns "classify TEMPLATE".
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEMPLATE",
		Short: "Show the placeholder pattern of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			placeholder := cliCtx.Config.Substituents.Placeholder
			c := domainDrv.Classify(args[0], placeholder)
			return PrintResult(cmd, classificationView{
				Template:    args[0],
				Placeholder: placeholder,
				Pattern:     c.Pattern,
				Occurrences: c.Occurrences,
				Interior:    c.InteriorSites(),
				Segments:    c.Segments,
			})
		},
	}
}

// substituentsView renders a substituent table.
type substituentsView struct {
	Path    string              `json:"path"`
	Digest  string              `json:"digest"`
	Entries []substituent.Entry `json:"entries"`
}

func (v substituentsView) TableHeaders() []string { return []string{"#", "LABEL", "INTERIOR", "LEADING"} }

func (v substituentsView) TableRows() [][]string {
	rows := make([][]string, len(v.Entries))
	for i, e := range v.Entries {
		rows[i] = []string{strconv.Itoa(i), e.Label, e.Interior, e.Leading}
	}
	return rows
}

// NewSubstituentsCmd returns "substituents list".
func NewSubstituentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "substituents",
		Short: "Inspect the substituent definition table",
	}

	var position string
	list := &cobra.Command{
		Use:   "list",
		Short: "List substituent entries, or the forms used at one position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			svc, cleanup, err := cliCtx.Deps.DerivativeService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			table, err := svc.Substituents(ctx)
			if err != nil {
				return err
			}

			if position != "" {
				pos, err := substituent.ParsePosition(position)
				if err != nil {
					return err
				}
				forms := table.Forms(pos)
				if strings.EqualFold(cliCtx.OutputFormat, "json") {
					return printJSON(cmd, forms)
				}
				for _, f := range forms {
					fmt.Fprintf(cmd.OutOrStdout(), "%q\n", f)
				}
				return nil
			}

			view := substituentsView{
				Path:    cliCtx.Config.Substituents.Path,
				Digest:  table.Digest(),
				Entries: table.Entries(),
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, view)
			}
			return printTable(cmd, view)
		},
	}
	list.Flags().StringVar(&position, "position", "", "print resolved forms for a position (leading|interior)")
	cmd.AddCommand(list)
	return cmd
}

//Personal.AI order the ending
