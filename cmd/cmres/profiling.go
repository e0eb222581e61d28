package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/prof"
)

var profiler *prof.Profiler

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var (
		cfg prof.Config
		err error
	)
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return err
	}
	if cfg.Heap, err = flags.GetString("mem-profile"); err != nil {
		return err
	}
	if cfg.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return err
	}
	if !cfg.Enabled() {
		return nil
	}
	profiler, err = prof.Start(cfg)
	return err
}

func stopProfiling() {
	if profiler == nil {
		return
	}
	if err := profiler.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	profiler = nil
}
