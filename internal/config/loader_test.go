// Package config_test provides black-box tests for the config package.
package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/errs"
)

func validDoc() string {
	return `
label = "hello"
description = "says hi"

[program]
path = "/bin/echo"
arguments = ["hi"]

[[environment]]
key = "GREETING"
value = "hi"

[supervision]
keep_alive = false
restart_policy = "never"
`
}

func TestLoader_Parse_Valid(t *testing.T) {
	l := config.NewLoader()
	cfg, err := l.Parse([]byte(validDoc()))
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.Label)
	assert.Equal(t, "/bin/echo", cfg.Program.Path)
	assert.Equal(t, []string{"hi"}, cfg.Program.Arguments)
	assert.Equal(t, map[string]string{"GREETING": "hi"}, cfg.EnvMap())
	assert.False(t, cfg.KeepAlive())
	assert.Equal(t, config.RestartNever, cfg.RestartPolicy())
}

func TestLoader_Parse_Defaults(t *testing.T) {
	l := config.NewLoader()
	cfg, err := l.Parse([]byte(`
label = "svc"
[program]
path = "/bin/false"
`))
	require.NoError(t, err)
	assert.True(t, cfg.KeepAlive())
	assert.Equal(t, config.RestartOnFailure, cfg.RestartPolicy())
	assert.Equal(t, 1, cfg.RestartDelaySec())
	assert.Equal(t, 5, cfg.MaxRestarts())
}

func TestLoader_Parse_RejectsUnknownFields(t *testing.T) {
	l := config.NewLoader()
	_, err := l.Parse([]byte(`
label = "svc"
unknown_top_level = true
[program]
path = "/bin/false"
`))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConfigParse))
}

func TestLoader_Parse_RelativePathRejected(t *testing.T) {
	l := config.NewLoader()
	_, err := l.Parse([]byte(`
label = "svc"
[program]
path = "relative/bin"
`))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConfigValidation))
}

func TestLoader_Parse_LabelWithSlashRejected(t *testing.T) {
	l := config.NewLoader()
	_, err := l.Parse([]byte(`
label = "a/b"
[program]
path = "/bin/true"
`))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConfigValidation))
}

func TestLoader_Parse_DormantPolicyWarns(t *testing.T) {
	var gotLabel, gotMsg string
	l := &config.Loader{Warn: func(label, msg string) { gotLabel, gotMsg = label, msg }}
	_, err := l.Parse([]byte(`
label = "svc"
[program]
path = "/bin/true"
[supervision]
keep_alive = false
restart_policy = "always"
`))
	require.NoError(t, err)
	assert.Equal(t, "svc", gotLabel)
	assert.Contains(t, gotMsg, "dormant")
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	l := config.NewLoader()
	_, err := l.Load("/no/such/path.toml")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ConfigFileNotFound))
}

func TestLoader_LoadDir_SkipsBadFilesAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.toml"), validDoc())
	writeFile(t, filepath.Join(dir, "b.toml"), "not valid toml [[[")
	writeFile(t, filepath.Join(dir, "c.toml"), validDoc()) // duplicate label "hello"
	writeFile(t, filepath.Join(dir, "ignored.txt"), "irrelevant")

	l := config.NewLoader()
	cfgs, errors := l.LoadDir(dir)

	require.Len(t, cfgs, 1)
	assert.Equal(t, "hello", cfgs[0].Label)
	require.Len(t, errors, 2)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
