package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/cmdform/internal/config"
	"github.com/conneroisu/cmdform/internal/introspect"
	"github.com/conneroisu/cmdform/internal/logging"
)

func TestDemoCommandsAreBridgeable(t *testing.T) {
	for _, demo := range demoCommands() {
		specs, err := introspect.Command(demo)
		require.NoError(t, err, "command %s", demo.Name())
		assert.NotEmpty(t, specs, "command %s", demo.Name())
	}
}

func TestRepeatCommandOutput(t *testing.T) {
	cmd := newRepeatCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Flags().Set("count", "2"))
	require.NoError(t, cmd.Flags().Set("text", "hi"))
	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, "hi\nhi", buf.String())
}

func TestGreetCommandOutput(t *testing.T) {
	cmd := newGreetCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Flags().Set("name", "go"))
	require.NoError(t, cmd.Flags().Set("shout", "true"))
	require.NoError(t, cmd.Flags().Set("excitement", "3"))
	require.NoError(t, cmd.RunE(cmd, nil))
	assert.Equal(t, "HELLO, GO!!!", buf.String())
}

func TestBuildRegistryRegistersDemoCommands(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8085, Host: "localhost"},
		Forms:  config.FormsConfig{BasePath: "/cmd/", CSSPath: "/assets/cmdform.css"},
		Log:    config.LogConfig{Level: "info", Format: "text"},
	}

	registry, err := buildRegistry(cfg, logging.NopLogger{})
	require.NoError(t, err)

	names := []string{}
	for _, entry := range registry.Entries() {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"repeat", "greet"}, names)
}

func TestBuildRegistryRejectsBadSkipPattern(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8085, Host: "localhost"},
		Forms:  config.FormsConfig{BasePath: "/cmd/", SkipPattern: "["},
		Log:    config.LogConfig{Level: "info", Format: "text"},
	}

	_, err := buildRegistry(cfg, logging.NopLogger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skip pattern")
}

func TestListCommandPrintsParameters(t *testing.T) {
	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	defer listCmd.SetOut(nil)

	require.NoError(t, runList(listCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "repeat")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "Text to repeat")
	assert.Contains(t, out, "greet")
}
