package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/observ"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Check every unit of a project",
	Long: `Build reads cmres.toml from dir or its nearest parent and checks all units
in import order. Units whose sources and imports are unchanged reuse their
cached archives.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	addOutputFlags(buildCmd)
	buildCmd.Flags().IntP("jobs", "j", 0, "units checked in parallel (0 = GOMAXPROCS)")
	buildCmd.Flags().Bool("no-cache", false, "ignore and do not update the archive cache")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("timings", false, "print per-unit timings")
}

func runBuild(cmd *cobra.Command, args []string) error {
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDepth, err := cmd.Root().PersistentFlags().GetInt("max-depth")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	cfg, err := loadProject(dir)
	if err != nil {
		return err
	}
	cache, err := openCache(cfg, noCache)
	if err != nil {
		return err
	}
	opts := driverOptions(cfg, out.maxDiags, maxDepth, jobs, cache)
	out.baseDir = cfg.Root

	started := time.Now()
	timer := observ.NewTimer()
	var res *driver.BuildResult
	// JSON goes to stdout, so the progress view would corrupt it.
	if out.format == "pretty" && shouldUseTUI(mode) {
		res, err = runBuildWithUI(cmd.Context(), "checking "+cfg.Project.Name, unitNames(cfg), cfg, opts)
	} else {
		res, err = driver.Build(cmd.Context(), cfg, opts)
	}
	if err != nil {
		return err
	}

	printed := make([]unitDiagnostics, len(res.Units))
	for i, u := range res.Units {
		printed[i] = unitDiagnostics{unit: u.Name, bag: u.Bag}
	}
	if err := printDiagnostics(cmd.OutOrStdout(), res.FileSet, printed, out); err != nil {
		return err
	}
	if out.format == "pretty" {
		if timings {
			recordTimings(timer, res)
			fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
		}
		printBuildSummary(cmd.OutOrStdout(), res, time.Since(started))
	}
	if res.HasErrors() {
		return errDiagnostics
	}
	return nil
}

func recordTimings(timer *observ.Timer, res *driver.BuildResult) {
	for i, wave := range res.Waves {
		for _, name := range wave {
			if u := res.Unit(name); u != nil {
				timer.Record(observ.Sample{Unit: name, Wave: i + 1, Dur: u.Elapsed, Cached: u.Cached})
			}
		}
	}
}

func printBuildSummary(w io.Writer, res *driver.BuildResult, elapsed time.Duration) {
	var cached, failed, insts int
	for _, u := range res.Units {
		switch {
		case u.Broken:
			failed++
		case u.Cached:
			cached++
		}
		if u.Archive != nil {
			insts += len(u.Archive.Instantiations)
		}
	}
	fmt.Fprintf(w, "%d units, %d cached, %d failed, %d instantiations exported in %s\n",
		len(res.Units), cached, failed, insts, elapsed.Round(time.Millisecond))
}
