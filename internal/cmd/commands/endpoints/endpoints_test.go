package endpoints

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaxify/esi/internal/cmd/base"
	"github.com/ajaxify/esi/pkg/esi"
)

func newCommand(t *testing.T, fs afero.Fs) (*Command, *cli.MockUi) {
	t.Helper()
	t.Setenv(base.ConfigEnvVar, "")

	ui := cli.NewMockUi()
	return &Command{
		Command: &base.Command{
			Log: hclog.NewNullLogger(),
			UI:  ui,
			FS:  fs,
		},
	}, ui
}

func TestCommand_Run(t *testing.T) {
	c, ui := newCommand(t, afero.NewMemMapFs())
	require.Equal(t, 0, c.Run(nil), ui.ErrorWriter.String())

	lines := strings.Split(ui.OutputWriter.String(), "\n")
	assert.Regexp(t, `^NAME\s+VERB\s+PATH\s+PAGED\s+OPTIONS`, lines[0])

	out := ui.OutputWriter.String()
	assert.Regexp(t, `(?m)^wars_war_killmails\s+GET\s+/wars/\{war_id\}/killmails/\s+yes`, out)
	assert.Regexp(t, `(?m)^universe_names\s+POST\s+/universe/names/\s+ids\*\(body\)$`, out)
	assert.Regexp(t, `(?m)^markets_region_orders\s+GET\s+\S+\s+yes\s+order_type\*,type_id$`, out)
}

func TestCommand_Run_ConfiguredEndpoints(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/esi.hcl", []byte(`endpoints = "/extra.yaml"`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/extra.yaml", []byte(`
- name: status
  verb: get
  path: /v2/status/
- name: dogma_attributes
  verb: get
  path: /dogma/attributes/
`), 0o644))

	c, ui := newCommand(t, fs)
	require.Equal(t, 0, c.Run([]string{"-config", "/esi.hcl"}), ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Regexp(t, `(?m)^status\s+GET\s+/v2/status/`, out)
	assert.Regexp(t, `(?m)^dogma_attributes\s+GET`, out)
}

func TestCommand_Run_BadTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte(`
- name: broken
  verb: fetch
  path: /broken/
`), 0o644))

	c, ui := newCommand(t, fs)
	assert.Equal(t, 1, c.Run([]string{"-endpoints", "/bad.yaml"}))
	assert.Contains(t, ui.ErrorWriter.String(), `unsupported verb "FETCH"`)
}

func TestFormatOptions(t *testing.T) {
	assert.Equal(t, "", formatOptions(nil))
	assert.Equal(t, "avoid,flag", formatOptions(esi.Schema{
		"flag":  {In: esi.InQuery},
		"avoid": {},
		"page":  {},
	}))
	assert.Equal(t, "names*(body)", formatOptions(esi.Schema{
		"names": {In: esi.InBody, Requirement: esi.Required},
	}))
}
