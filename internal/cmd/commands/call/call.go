package call

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/ajaxify/esi/internal/cmd/base"
	"github.com/ajaxify/esi/pkg/esi"
)

type Command struct {
	*base.Command

	flagConfig    string
	flagEndpoints string
	flagStream    bool
	flagLimit     int
	flagOptions   base.StringSliceValue
}

func (c *Command) Synopsis() string {
	return "Call an ESI endpoint and print the JSON response"
}

func (c *Command) Help() string {
	return `Usage: esi call [options] <endpoint> [path args...]

  Calls the named endpoint and prints the decoded response as JSON. Path
  arguments fill the endpoint's {placeholders} in order.

  With -stream, paginated endpoints are walked page by page and each item is
  printed as one JSON document per line.

  Examples:

      esi call status
      esi call -stream -limit 10 wars_war_killmails 615476
      esi call -o names='["Jita","Amarr"]' universe_ids` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("call", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"[ESI_CONFIG] Path to the HCL configuration file",
	)
	f.StringVar(
		&c.flagEndpoints, "endpoints", "",
		"Path to a YAML endpoint table merged over the built-in one",
	)
	f.BoolVar(
		&c.flagStream, "stream", false,
		"Walk every page and print one item per line",
	)
	f.IntVar(
		&c.flagLimit, "limit", 0,
		"Stop streaming after this many items (0 means no limit)",
	)
	f.Var(
		&c.flagOptions, "o",
		"Request option as name=value; the value is parsed as JSON when possible. Repeatable",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if f.NArg() < 1 {
		c.UI.Error("an endpoint name is required")
		c.UI.Error(c.Help())
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

	name := f.Arg(0)
	endpoint, ok := table.Lookup(name)
	if !ok {
		c.UI.Error(fmt.Sprintf("unknown endpoint %q; run \"esi endpoints\" for the list", name))
		return 1
	}

	pathArgs := make([]any, 0, f.NArg()-1)
	for _, a := range f.Args()[1:] {
		pathArgs = append(pathArgs, a)
	}
	req, err := endpoint.Request(pathArgs...)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	opts, err := parseOptions(c.flagOptions)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	req = req.Options(cfg.RequestOptions()).Options(opts)

	client, err := esi.NewClient(cfg.ClientConfig(c.Log))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.flagStream {
		return c.stream(ctx, client, req)
	}

	v, err := client.Run(ctx, req)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error encoding response: %v", err))
		return 1
	}
	c.UI.Output(string(out))
	return 0
}

func (c *Command) stream(ctx context.Context, client *esi.Client, req esi.Request) int {
	n := 0
	for item, err := range client.Stream(ctx, req) {
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		out, err := json.Marshal(item)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error encoding item: %v", err))
			return 1
		}
		c.UI.Output(string(out))

		n++
		if c.flagLimit > 0 && n >= c.flagLimit {
			break
		}
	}
	c.Log.Debug("stream finished", "items", n)
	return 0
}

// parseOptions turns name=value pairs into request options. Names are
// normalized to snake case.
func parseOptions(pairs []string) (map[string]any, error) {
	opts := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid option %q: expected name=value", p)
		}
		opts[strcase.ToSnake(name)] = parseValue(value)
	}
	return opts, nil
}

// parseValue decodes s as JSON, or returns it unchanged when it is not JSON.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
