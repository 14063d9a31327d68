package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	provider "docsite/conf/provider"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

type staticProv []provider.Content

func (s staticProv) Open() ([]provider.Content, error) { return s, nil }
func (staticProv) Watch(func() error) error           { return nil }

type failingProv struct{}

func (failingProv) Open() ([]provider.Content, error) { return nil, errors.New("boom") }
func (failingProv) Watch(func() error) error           { return nil }

func TestLoad_OK(t *testing.T) {
	path := writeFile(t, "strictMode: true\nserver:\n  bind: ':9090'\nsite:\n  title: Docs\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, ":9090", cfg.Server.Bind)
	assert.Equal(t, "Docs", cfg.Site.Title)
}

func TestLoad_ErrEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ErrBadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "strictMode: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoad_KeepsUnknownKeys(t *testing.T) {
	cfg, err := Load(writeFile(t, "strictMode: true\nanalytics:\n  id: UA-1\n  enabled: true\n"))
	require.NoError(t, err)

	v, ok := cfg.Lookup("analytics.id")
	require.True(t, ok)
	assert.Equal(t, "UA-1", v)
	_, ok = cfg.Lookup("analytics.missing")
	assert.False(t, ok)
	_, ok = cfg.Lookup("strictMode")
	assert.False(t, ok, "recognized keys are not part of Extra")
}

func TestLoadFromProvider_File(t *testing.T) {
	cfg, err := LoadFromProvider(provider.NewFile(writeFile(t, "strictMode: true\nserver:\n  bind: ':8081'\n")))
	require.NoError(t, err)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, ":8081", cfg.Server.Bind)
}

func TestLoadFromProvider_Defaults(t *testing.T) {
	cfg, err := LoadFromProvider(staticProv{{ID: "a", Group: "g", Payload: "site:\n  title: d\n"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultBind, cfg.Server.Bind)
	assert.False(t, cfg.StrictMode)
}

func TestLoadFromProvider_LayersPerKey(t *testing.T) {
	cfg, err := LoadFromProvider(staticProv{
		{ID: "a", Group: "g", Payload: "strictMode: true\nserver:\n  bind: ':1001'\ncontent:\n  pageExtensions: [html, md]\nfeature: a\n"},
		{ID: "b", Group: "g", Payload: "strictMode: false\nsite:\n  title: B\ncontent:\n  pageExtensions: [mdx]\nother: b\n"},
	})
	require.NoError(t, err)
	assert.False(t, cfg.StrictMode, "explicit false in a later layer wins")
	assert.Equal(t, ":1001", cfg.Server.Bind)
	assert.Equal(t, "B", cfg.Site.Title)
	assert.Equal(t, []string{"mdx"}, cfg.Content.PageExtensions)
	assert.Equal(t, "a", cfg.Extra["feature"])
	assert.Equal(t, "b", cfg.Extra["other"])
}

func TestLoadFromProvider_Empty(t *testing.T) {
	_, err := LoadFromProvider(staticProv{})
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestLoadFromProvider_OpenError(t *testing.T) {
	_, err := LoadFromProvider(failingProv{})
	assert.EqualError(t, err, "boom")
}

func TestLoadFromProvider_ParseErrorNamesDocument(t *testing.T) {
	_, err := LoadFromProvider(staticProv{{ID: "bad.yaml", Group: "dir", Payload: "server: [\n"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dir/bad.yaml")
}

func TestLoadFromProvider_EnvOverrides(t *testing.T) {
	t.Setenv("DOCSITE_BIND", ":7070")
	t.Setenv("DOCSITE_TITLE", "From Env")
	cfg, err := LoadFromProvider(staticProv{{ID: "a", Group: "g", Payload: "strictMode: true\nserver:\n  bind: ':1001'\nsite:\n  title: file\n"}})
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Bind)
	assert.Equal(t, "From Env", cfg.Site.Title)
	assert.True(t, cfg.StrictMode)
}

func TestLoadFromProvider_EmptyEnvKeepsFile(t *testing.T) {
	t.Setenv("DOCSITE_BIND", "")
	cfg, err := LoadFromProvider(staticProv{{ID: "a", Group: "g", Payload: "server:\n  bind: ':1001'\n"}})
	require.NoError(t, err)
	assert.Equal(t, ":1001", cfg.Server.Bind)
}

func TestLoadFromProvider_Dir(t *testing.T) {
	d := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(d, "10-base.yaml"), []byte("strictMode: true\nsite:\n  title: base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(d, "20-local.yaml"), []byte("site:\n  title: local\n"), 0o644))

	cfg, err := LoadFromProvider(provider.NewDir(d))
	require.NoError(t, err)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, "local", cfg.Site.Title)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate(AppConfig{}))
	assert.NoError(t, Validate(AppConfig{Server: ServerConfig{Bind: ":1"}}))
}

func TestClone_Deep(t *testing.T) {
	orig := AppConfig{
		StrictMode: true,
		Content:    ContentConfig{PageExtensions: []string{"md"}},
		Extra: map[string]any{
			"nav":  map[string]any{"items": []any{"a"}},
			"flag": true,
		},
	}
	c := orig.Clone()
	c.Content.PageExtensions[0] = "x"
	c.Extra["nav"].(map[string]any)["items"].([]any)[0] = "changed"
	c.Extra["flag"] = false

	assert.Equal(t, "md", orig.Content.PageExtensions[0])
	assert.Equal(t, "a", orig.Extra["nav"].(map[string]any)["items"].([]any)[0])
	assert.Equal(t, true, orig.Extra["flag"])
	assert.Equal(t, orig.StrictMode, c.StrictMode)
}

func TestClone_NilStaysNil(t *testing.T) {
	c := AppConfig{}.Clone()
	assert.Nil(t, c.Extra)
	assert.Nil(t, c.Content.PageExtensions)
}

func TestLoad_NonStringKeysNormalized(t *testing.T) {
	cfg, err := Load(writeFile(t, "redirects:\n  404: /missing\n  old: /new\nmatrix:\n  - {1: a}\n"))
	require.NoError(t, err)

	redirects, ok := cfg.Extra["redirects"].(map[string]any)
	require.True(t, ok, "got %T", cfg.Extra["redirects"])
	assert.Equal(t, "/missing", redirects["404"])
	assert.Equal(t, "/new", cfg.LookupString("redirects.old"))

	row := cfg.Extra["matrix"].([]any)[0]
	assert.IsType(t, map[string]any{}, row)

	_, err = sonic.Marshal(cfg)
	assert.NoError(t, err)
}

func TestClone_ConvertsAnyKeyedMaps(t *testing.T) {
	inner := map[any]any{404: "/missing"}
	orig := AppConfig{Extra: map[string]any{"redirects": inner}}

	c := orig.Clone()
	m, ok := c.Extra["redirects"].(map[string]any)
	require.True(t, ok)
	m["404"] = "/changed"
	assert.Equal(t, "/missing", inner[404])
}

func TestLookupString(t *testing.T) {
	cfg := AppConfig{Extra: map[string]any{"i18n": map[string]any{"defaultLocale": "en", "n": 1}}}
	assert.Equal(t, "en", cfg.LookupString("i18n.defaultLocale"))
	assert.Equal(t, "", cfg.LookupString("i18n.n"))
	assert.Equal(t, "", cfg.LookupString("missing"))
	assert.Equal(t, "", cfg.LookupString(""))
}
