package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/dockprep/internal/application/docking"
	domainDock "github.com/turtacn/dockprep/internal/domain/docking"
	"github.com/turtacn/dockprep/internal/infrastructure/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

// NewReceptorCmd returns "receptor prepare FILE...".
func NewReceptorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receptor",
		Short: "Lay out receptor directories",
	}
	prepare := &cobra.Command{
		Use:   "prepare FILE.pdbqt...",
		Short: "Move each receptor into its own directory as " + docking.PreparedReceptorName,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ws := cliCtx.Deps.Workspace(cliCtx)
			dirs := make([]string, 0, len(args))
			for _, path := range args {
				dir, err := ws.PrepareReceptor(path)
				if err != nil {
					return err
				}
				dirs = append(dirs, dir)
			}
			return PrintResult(cmd, dirs)
		},
	}
	cmd.AddCommand(prepare)
	return cmd
}

// NewBoxCmd returns "box", which writes a docking search-box config.
func NewBoxCmd() *cobra.Command {
	var (
		center     string
		fromLigand string
		size       float64
		out        string
	)
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Write a docking search-box config file",
		Long: "Write a cubic search box centred either on --center x,y,z or on the\n" +
			"centroid of the heavy atoms of --from-ligand.  Search parameters come from\n" +
			"the docking config section.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			var c [3]float64
			switch {
			case center != "" && fromLigand != "":
				return errors.InvalidParam("--center and --from-ligand are mutually exclusive")
			case center != "":
				if c, err = parseCenter(center); err != nil {
					return err
				}
			case fromLigand != "":
				atoms, err := structure.ReadAtomsFile(fromLigand)
				if err != nil {
					return err
				}
				if c, err = structure.Centroid(atoms); err != nil {
					return errors.Wrap(err, errors.CodeUnknown, "ligand has no heavy atoms").WithDetail(fromLigand)
				}
			default:
				return errors.InvalidParam("either --center or --from-ligand is required")
			}
			if size == 0 {
				size = cliCtx.Config.Docking.BoxSize
			}

			box, err := cliCtx.Deps.Workspace(cliCtx).WriteBoxConfig(out, c, size)
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, box)
			}
			PrintSuccess(cmd, "box config written to "+out)
			fmt.Fprint(cmd.OutOrStdout(), box.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&center, "center", "", "box centre as x,y,z")
	cmd.Flags().StringVar(&fromLigand, "from-ligand", "", "centre the box on the heavy atoms of this PDB/PDBQT file")
	cmd.Flags().Float64Var(&size, "size", 0, "box edge length in Å (default docking.box_size)")
	cmd.Flags().StringVar(&out, "out", "config.txt", "output file")
	return cmd
}

func parseCenter(s string) ([3]float64, error) {
	var c [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return c, errors.InvalidParam("center must be x,y,z").WithDetail(s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return c, errors.InvalidParam("center must be x,y,z").WithDetail(s).WithCause(err)
		}
		c[i] = v
	}
	return c, nil
}

// reportView renders a score report.
type reportView domainDock.Report

func (v reportView) TableHeaders() []string {
	if v.WithReceptor {
		return []string{"RECEPTOR", "LIGAND", "SCORE"}
	}
	return []string{"LIGAND", "SCORE"}
}

func (v reportView) TableRows() [][]string {
	rows := make([][]string, len(v.Entries))
	for i, e := range v.Entries {
		score := strconv.FormatFloat(e.Score, 'f', -1, 64)
		if v.WithReceptor {
			rows[i] = []string{e.Receptor, e.Ligand, score}
		} else {
			rows[i] = []string{e.Ligand, score}
		}
	}
	return rows
}

// NewScoresCmd returns "scores best".
func NewScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Work with docking score reports",
	}
	var out string
	best := &cobra.Command{
		Use:   "best REPORT",
		Short: "Keep the best-scoring rows of each receptor",
		Long: "Read a tab-separated score report and keep, per receptor, every row whose\n" +
			"score equals the receptor's minimum.  The result is printed, and written to\n" +
			"--out when given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ws := cliCtx.Deps.Workspace(cliCtx)

			var report domainDock.Report
			if out != "" {
				report, err = ws.BestScoresFile(args[0], out)
			} else {
				var in domainDock.Report
				if in, err = ws.ReadReportFile(args[0]); err == nil {
					report = domainDock.BestScores(in)
				}
			}
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, report)
			}
			return printTable(cmd, reportView(report))
		},
	}
	best.Flags().StringVar(&out, "out", "", "write the filtered report to this file")
	cmd.AddCommand(best)
	return cmd
}

// NewExtractCmd returns "extract REPORT OUTPUT_DIR".
func NewExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract REPORT OUTPUT_DIR",
		Short: "Copy the first pose of every ligand named in a score report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Deps.Workspace(cliCtx).ExtractFromReport(args[0], args[1])
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				return printJSON(cmd, res)
			}
			PrintSuccess(cmd, fmt.Sprintf("%s poses extracted to %s",
				color.CyanString(strconv.Itoa(len(res.Files))), args[1]))
			return printText(cmd, res.Files)
		},
	}
}

// NewStructureCmd returns "structure backbone|positions FILE".
func NewStructureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Inspect PDB / PDBQT coordinate files",
	}

	backbone := &cobra.Command{
		Use:   "backbone FILE",
		Short: "Print the names of all heavy atoms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			atoms, err := structure.ReadAtomsFile(args[0])
			if err != nil {
				return err
			}
			names := make([]string, len(atoms))
			for i, a := range atoms {
				names[i] = a.Name
			}
			return PrintResult(cmd, names)
		},
	}

	positions := &cobra.Command{
		Use:   "positions FILE",
		Short: "Print the coordinates of all heavy atoms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			atoms, err := structure.ReadAtomsFile(args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.OutputFormat, "json") {
				pos := make([][3]float64, len(atoms))
				for i, a := range atoms {
					pos[i] = a.Pos
				}
				return printJSON(cmd, pos)
			}
			return printTable(cmd, atomsView(atoms))
		},
	}

	cmd.AddCommand(backbone, positions)
	return cmd
}

type atomsView []structure.Atom

func (v atomsView) TableHeaders() []string { return []string{"ATOM", "X", "Y", "Z"} }

func (v atomsView) TableRows() [][]string {
	rows := make([][]string, len(v))
	for i, a := range v {
		rows[i] = []string{
			a.Name,
			strconv.FormatFloat(a.Pos[0], 'f', 3, 64),
			strconv.FormatFloat(a.Pos[1], 'f', 3, 64),
			strconv.FormatFloat(a.Pos[2], 'f', 3, 64),
		}
	}
	return rows
}

//Personal.AI order the ending
