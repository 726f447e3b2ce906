package endpoints

import (
	"flag"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/ajaxify/esi/internal/cmd/base"
	"github.com/ajaxify/esi/pkg/esi"
)

type Command struct {
	*base.Command

	flagConfig    string
	flagEndpoints string
}

func (c *Command) Synopsis() string {
	return "List the known ESI endpoints"
}

func (c *Command) Help() string {
	return `Usage: esi endpoints [options]

  Lists every endpoint of the table with its verb, path and options.
  Required options are marked with "*"; body options with "(body)".` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("endpoints", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"[ESI_CONFIG] Path to the HCL configuration file",
	)
	f.StringVar(
		&c.flagEndpoints, "endpoints", "",
		"Path to a YAML endpoint table merged over the built-in one",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	table, err := c.LoadEndpoints(cfg.Endpoints, c.flagEndpoints)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading endpoints: %v", err))
		return 1
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERB\tPATH\tPAGED\tOPTIONS")
	for _, e := range table.Endpoints() {
		paged := ""
		if e.Paginated() {
			paged = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.Verb, e.Path, paged, formatOptions(e.Options))
	}
	if err := tw.Flush(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(strings.TrimRight(sb.String(), "\n"))
	return 0
}

func formatOptions(schema esi.Schema) string {
	names := make([]string, 0, len(schema))
	for name, opt := range schema {
		if name == esi.PageOption {
			continue
		}
		if opt.Required() {
			name += "*"
		}
		if opt.In == esi.InBody {
			name += "(body)"
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}
