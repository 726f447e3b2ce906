package version

import (
	"github.com/ajaxify/esi/internal/cmd/base"
	"github.com/ajaxify/esi/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: esi version

  Prints the version of this binary.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Info())
	return 0
}
