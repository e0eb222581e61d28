package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/sema"
)

var instantiationsCmd = &cobra.Command{
	Use:     "instantiations [flags] [dir]",
	Aliases: []string{"insts"},
	Short:   "List the class template instantiations of each unit",
	Long: `Instantiations checks the project without the archive cache and lists every
instantiation a unit holds, whether it was imported from another unit, and
which of its member functions were bound.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstantiations,
}

func init() {
	instantiationsCmd.Flags().StringP("unit", "u", "", "only list this unit")
	instantiationsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	instantiationsCmd.Flags().Bool("members", true, "list member functions")
}

type memberPayload struct {
	Signature string `json:"signature"`
	Bound     bool   `json:"bound"`
}

type instantiationPayload struct {
	Name     string          `json:"name"`
	State    string          `json:"state"`
	Imported bool            `json:"imported"`
	Members  []memberPayload `json:"members,omitempty"`
}

type unitPayload struct {
	Unit           string                 `json:"unit"`
	Instantiations []instantiationPayload `json:"instantiations"`
}

func runInstantiations(cmd *cobra.Command, args []string) error {
	only, err := cmd.Flags().GetString("unit")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	withMembers, err := cmd.Flags().GetBool("members")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	maxDepth, err := cmd.Root().PersistentFlags().GetInt("max-depth")
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
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
	res, err := driver.Build(cmd.Context(), cfg, driverOptions(cfg, maxDiags, maxDepth, 0, nil))
	if err != nil {
		return err
	}

	var payload []unitPayload
	found := only == ""
	for _, u := range res.Units {
		if only != "" && u.Name != only {
			continue
		}
		found = true
		payload = append(payload, collectInstantiations(u, withMembers))
	}
	if !found {
		return fmt.Errorf("unit %q is not part of project %s", only, cfg.Project.Name)
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	renderInstantiations(cmd.OutOrStdout(), payload)
	if res.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: some units have errors; run 'cmres build' for diagnostics")
	}
	return nil
}

func collectInstantiations(u *driver.UnitResult, withMembers bool) unitPayload {
	out := unitPayload{Unit: u.Name, Instantiations: []instantiationPayload{}}
	if u.Session == nil {
		return out
	}
	e := u.Session.Engine()
	for _, inst := range e.Instantiations() {
		p := instantiationPayload{
			Name:     inst.Name,
			State:    inst.State.String(),
			Imported: inst.Imported,
		}
		if withMembers {
			p.Members = members(u.Session, inst)
		}
		out.Instantiations = append(out.Instantiations, p)
	}
	return out
}

func members(s *sema.Session, inst *sema.Instantiation) []memberPayload {
	out := make([]memberPayload, 0, len(inst.Members))
	for _, fn := range inst.Members {
		out = append(out, memberPayload{Signature: s.Signature(fn), Bound: s.Engine().IsBound(fn)})
	}
	return out
}

var (
	unitHeaderColor = color.New(color.Bold)
	importedColor   = color.New(color.FgCyan)
	boundColor      = color.New(color.FgGreen)
)

func renderInstantiations(w io.Writer, units []unitPayload) {
	for _, u := range units {
		unitHeaderColor.Fprintf(w, "%s", u.Unit)
		fmt.Fprintf(w, " (%d)\n", len(u.Instantiations))
		for _, inst := range u.Instantiations {
			fmt.Fprintf(w, "  %s [%s]", inst.Name, inst.State)
			if inst.Imported {
				importedColor.Fprint(w, " imported")
			}
			fmt.Fprintln(w)
			for _, m := range inst.Members {
				mark := " "
				if m.Bound {
					mark = boundColor.Sprint("*")
				}
				fmt.Fprintf(w, "    %s %s\n", mark, m.Signature)
			}
		}
	}
}
