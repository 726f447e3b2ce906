package call

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaxify/esi/internal/cmd/base"
)

const configPath = "/etc/esi/config.hcl"

// newCommand returns a call command whose configuration points at baseURL.
func newCommand(t *testing.T, baseURL string) (*Command, *cli.MockUi, afero.Fs) {
	t.Helper()
	t.Setenv(base.ConfigEnvVar, "")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configPath, []byte(`
base_url   = "`+baseURL+`"
timeout    = "5s"
datasource = "tranquility"
`), 0o644))

	ui := cli.NewMockUi()
	return &Command{
		Command: &base.Command{
			Log: hclog.NewNullLogger(),
			UI:  ui,
			FS:  fs,
		},
	}, ui, fs
}

func TestCommand_Run_Get(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/status/", r.URL.Path)
		assert.Equal(t, "tranquility", r.URL.Query().Get("datasource"))
		_, _ = io.WriteString(w, `{"players":1234,"server_version":"2222"}`)
	}))
	defer mockServer.Close()

	c, ui, _ := newCommand(t, mockServer.URL)
	code := c.Run([]string{"-config", configPath, "status"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(ui.OutputWriter.String()), &got))
	assert.Equal(t, map[string]any{"players": float64(1234), "server_version": "2222"}, got)
}

func TestCommand_Run_PathArgsAndOptions(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/route/30000142/30002187/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "shortest", q.Get("flag"))
		assert.Equal(t, "30000144,30000145", q.Get("avoid"))
		assert.Equal(t, "singularity", q.Get("datasource"), "-o overrides the configured datasource")
		_, _ = io.WriteString(w, `[30000142,30000144,30002187]`)
	}))
	defer mockServer.Close()

	c, ui, _ := newCommand(t, mockServer.URL)
	code := c.Run([]string{
		"-config", configPath,
		"-o", "flag=shortest",
		"-o", "avoid=[30000144,30000145]",
		"-o", "datasource=singularity",
		"route", "30000142", "30002187",
	})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "30002187")
}

func TestCommand_Run_BodyOption(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/universe/names/", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `[30000142,95465499]`, string(body))
		_, _ = io.WriteString(w, `[{"id":30000142,"name":"Jita","category":"solar_system"}]`)
	}))
	defer mockServer.Close()

	c, ui, _ := newCommand(t, mockServer.URL)
	code := c.Run([]string{"-config", configPath, "-o", "ids=[30000142,95465499]", "universe_names"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), `"name": "Jita"`)
}

func TestCommand_Run_OptionNamesAreNormalized(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sell", r.URL.Query().Get("order_type"))
		_, _ = io.WriteString(w, `[]`)
	}))
	defer mockServer.Close()

	c, ui, _ := newCommand(t, mockServer.URL)
	code := c.Run([]string{"-config", configPath, "-o", "orderType=sell", "markets_region_orders", "10000002"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
}

func TestCommand_Run_Stream(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		w.Header().Set("X-Pages", "3")

		items := make([]map[string]int, 2)
		for i := range items {
			items[i] = map[string]int{"killmail_id": (page-1)*2 + i}
		}
		_ = json.NewEncoder(w).Encode(items)
	}))
	defer mockServer.Close()

	t.Run("all pages", func(t *testing.T) {
		calls.Store(0)
		c, ui, _ := newCommand(t, mockServer.URL)
		code := c.Run([]string{"-config", configPath, "-stream", "wars_war_killmails", "615476"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())

		lines := strings.Split(strings.TrimSpace(ui.OutputWriter.String()), "\n")
		require.Len(t, lines, 6)
		assert.JSONEq(t, `{"killmail_id":0}`, lines[0])
		assert.JSONEq(t, `{"killmail_id":5}`, lines[5])
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("limit", func(t *testing.T) {
		calls.Store(0)
		c, ui, _ := newCommand(t, mockServer.URL)
		code := c.Run([]string{"-config", configPath, "-stream", "-limit", "3", "wars_war_killmails", "615476"})
		require.Equal(t, 0, code, ui.ErrorWriter.String())

		lines := strings.Split(strings.TrimSpace(ui.OutputWriter.String()), "\n")
		assert.Len(t, lines, 3)
		assert.EqualValues(t, 2, calls.Load())
	})
}

func TestCommand_Run_Errors(t *testing.T) {
	var calls atomic.Int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"War not found"}`)
	}))
	defer mockServer.Close()

	tests := []struct {
		name    string
		args    []string
		wantErr string
		hits    int32
	}{
		{
			name:    "no endpoint",
			args:    []string{"-config", configPath},
			wantErr: "an endpoint name is required",
		},
		{
			name:    "unknown endpoint",
			args:    []string{"-config", configPath, "wars_everywhere"},
			wantErr: `unknown endpoint "wars_everywhere"`,
		},
		{
			name:    "wrong path argument count",
			args:    []string{"-config", configPath, "wars_war"},
			wantErr: "expects 1 path argument(s) (war_id), got 0",
		},
		{
			name:    "malformed option",
			args:    []string{"-config", configPath, "-o", "nameless", "status"},
			wantErr: `invalid option "nameless"`,
		},
		{
			name:    "missing required option",
			args:    []string{"-config", configPath, "markets_region_orders", "10000002"},
			wantErr: "missing option `order_type`",
		},
		{
			name:    "upstream error",
			args:    []string{"-config", configPath, "wars_war", "1"},
			wantErr: "War not found",
			hits:    1,
		},
		{
			name:    "missing config file",
			args:    []string{"-config", "/nope.hcl", "status"},
			wantErr: "error loading configuration",
		},
		{
			name:    "bad flag",
			args:    []string{"-bogus", "status"},
			wantErr: "error parsing flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.Store(0)
			c, ui, _ := newCommand(t, mockServer.URL)
			code := c.Run(tt.args)
			assert.Equal(t, 1, code)
			assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
			assert.Equal(t, tt.hits, calls.Load())
		})
	}
}

func TestCommand_Run_CustomEndpoints(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loyalty/stores/1000035/offers/", r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer mockServer.Close()

	c, ui, fs := newCommand(t, mockServer.URL)
	require.NoError(t, afero.WriteFile(fs, "/etc/esi/extra.yaml", []byte(`
- name: loyalty_stores_offers
  verb: get
  path: /loyalty/stores/{corporation_id}/offers/
`), 0o644))

	code := c.Run([]string{"-config", configPath, "-endpoints", "/etc/esi/extra.yaml", "loyalty_stores_offers", "1000035"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, "[]\n", ui.OutputWriter.String())
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(42), parseValue("42"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, []any{"a", "b"}, parseValue(`["a","b"]`))
	assert.Equal(t, "all", parseValue("all"))
	assert.Equal(t, "", parseValue(""))
}
