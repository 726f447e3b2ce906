package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/ajaxify/esi/internal/config"
	"github.com/ajaxify/esi/pkg/endpoints"
)

// ConfigEnvVar names the environment variable holding the default
// configuration file path.
const ConfigEnvVar = "ESI_CONFIG"

// Command holds what every subcommand shares.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
	FS  afero.Fs
}

// NewCommand returns a Command backed by the OS filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		FS:  afero.NewOsFs(),
	}
}

// LoadConfig loads the configuration at path, falling back to $ESI_CONFIG and
// then to the defaults. The logger level follows the configuration.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	cfg, err := config.Load(c.FS, path)
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(cfg.Level())
	return cfg, nil
}

// LoadEndpoints returns the built-in endpoint table merged with the tables at
// paths, in order. Empty paths are skipped.
func (c *Command) LoadEndpoints(paths ...string) (*endpoints.Table, error) {
	table := endpoints.Default()
	for _, p := range paths {
		if p == "" {
			continue
		}
		extra, err := endpoints.LoadFile(c.FS, p)
		if err != nil {
			return nil, err
		}
		c.Log.Debug("merged endpoint table", "path", p, "endpoints", extra.Len())
		table = table.Merge(extra)
	}
	return table, nil
}

// FlagSet wraps flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned, not printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&buf, "\n  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "[]" {
			fmt.Fprintf(&buf, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&buf, "\n      %s\n", fl.Usage)
	})
	return strings.TrimRight(buf.String(), "\n")
}

// StringSliceValue is a flag.Value collecting every occurrence of a flag.
type StringSliceValue []string

func (s *StringSliceValue) String() string {
	if s == nil || len(*s) == 0 {
		return "[]"
	}
	return strings.Join(*s, ",")
}

func (s *StringSliceValue) Set(v string) error {
	*s = append(*s, v)
	return nil
}
