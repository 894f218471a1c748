package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"

	"github.com/xstream/tunbridge/pkg/tunbridge"
)

type ProbeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewProbeCommand returns the probe command.
func NewProbeCommand(rootCmd *RootCommand, app *kingpin.Application) *ProbeCommand {
	c := &ProbeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("probe", "Load the engine library and report which entry points resolve.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ProbeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProbeCommand) Run(ctx context.Context) error {
	report := c.rootCmd.NewBridge().Probe()

	switch c.format {
	case "json":
		enc := json.NewEncoder(c.rootCmd.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(probeOutput{ProbeReport: report, Version: tunbridge.WrapperVersion()}); err != nil {
			return fmt.Errorf("could not print probe report: %w", err)
		}
	default:
		w := tabwriter.NewWriter(c.rootCmd.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "VERSION\t%s\n", tunbridge.WrapperVersion())
		fmt.Fprintf(w, "LIBRARY\t%s\n", report.Library)
		fmt.Fprintf(w, "AVAILABLE\t%t\n", report.Available)
		fmt.Fprintf(w, "SUBMIT\t%t\n", report.Submit)
		fmt.Fprintf(w, "ATTEMPTS\t%d\n", report.Attempts)
		if report.Error != "" {
			fmt.Fprintf(w, "ERROR\t%s\n", report.Error)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("could not print probe report: %w", err)
		}
	}

	if !report.Available {
		return errors.New("engine library is not available")
	}
	return nil
}

type probeOutput struct {
	tunbridge.ProbeReport
	Version string `json:"version"`
}
