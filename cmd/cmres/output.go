package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/diag"
	"github.com/slaakko/cmajor-sub007/internal/diagfmt"
	"github.com/slaakko/cmajor-sub007/internal/source"
)

// outputOptions are the diagnostic rendering flags shared by check and
// build.
type outputOptions struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	baseDir   string
	color     bool
	maxDiags  int
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes")
	cmd.Flags().String("path-mode", "auto", "how file paths are shown (auto|absolute|relative|basename)")
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var opts outputOptions
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(format))
	if opts.format != "pretty" && opts.format != "json" {
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	if opts.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return opts, err
	}
	pm, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return opts, err
	}
	mode, ok := diagfmt.ParsePathMode(pm)
	if !ok {
		return opts, fmt.Errorf("invalid --path-mode value %q", pm)
	}
	opts.pathMode = mode

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return opts, err
	}
	switch colorFlag {
	case "on":
		opts.color = true
	case "off":
		opts.color = false
	case "auto":
		opts.color = isTerminal(os.Stdout)
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	if opts.maxDiags, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, err
	}
	return opts, nil
}

// unitDiagnostics pairs a unit name with its diagnostics.
type unitDiagnostics struct {
	unit string
	bag  *diag.Bag
}

func printDiagnostics(w io.Writer, fs *source.FileSet, units []unitDiagnostics, opts outputOptions) error {
	if opts.format == "json" {
		var out diagfmt.DiagnosticsOutput
		for _, u := range units {
			out.Append(u.unit, u.bag, fs, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         opts.pathMode,
				BaseDir:          opts.baseDir,
				IncludeNotes:     opts.withNotes,
			})
		}
		return diagfmt.JSON(w, out)
	}
	for _, u := range units {
		if u.bag.Len() == 0 {
			continue
		}
		diagfmt.Pretty(w, u.bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			BaseDir:   opts.baseDir,
			ShowNotes: opts.withNotes,
		})
	}
	return nil
}
