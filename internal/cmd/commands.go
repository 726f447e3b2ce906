package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/ajaxify/esi/internal/cmd/base"
	"github.com/ajaxify/esi/internal/cmd/commands/call"
	"github.com/ajaxify/esi/internal/cmd/commands/endpoints"
	"github.com/ajaxify/esi/internal/cmd/commands/version"
)

// Commands is the mapping of all available esi commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"call": func() (cli.Command, error) {
			return &call.Command{Command: b}, nil
		},
		"endpoints": func() (cli.Command, error) {
			return &endpoints.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
