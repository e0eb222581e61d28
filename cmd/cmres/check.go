package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.unit.toml>",
	Short: "Check a single unit",
	Long: `Check binds one unit file. Units it imports are passed with --import in
dependency order; each is checked first and its instantiations are shared
with the units after it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	addOutputFlags(checkCmd)
	checkCmd.Flags().StringArray("import", nil, "unit file imported by the checked unit (repeatable, dependencies first)")
	checkCmd.Flags().Bool("all", false, "also print diagnostics of imported units")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	imports, err := cmd.Flags().GetStringArray("import")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	maxDepth, err := cmd.Root().PersistentFlags().GetInt("max-depth")
	if err != nil {
		return err
	}
	opts := driver.Options{MaxDiagnostics: out.maxDiags, MaxDepth: maxDepth}

	fs := source.NewFileSet()
	var (
		deps    []driver.Dependency
		printed []unitDiagnostics
	)
	for _, path := range imports {
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		res := driver.CheckUnit(cmd.Context(), fs, id, deps, opts)
		if all {
			printed = append(printed, unitDiagnostics{unit: res.Name, bag: res.Bag})
		}
		deps = append(deps, driver.Dependency{Name: res.Name, Source: id, Archive: res.Archive})
	}

	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	res := driver.CheckUnit(cmd.Context(), fs, id, deps, opts)
	printed = append(printed, unitDiagnostics{unit: res.Name, bag: res.Bag})
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	if err := printDiagnostics(cmd.OutOrStdout(), fs, printed, out); err != nil {
		return err
	}
	for _, u := range printed {
		if u.bag.HasErrors() {
			return errDiagnostics
		}
	}
	if out.format == "pretty" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d instantiations)\n", res.Name, len(res.Session.Engine().Instantiations()))
	}
	return nil
}
