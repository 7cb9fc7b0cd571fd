package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uhc.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, "server.jar", cfg.Server.Jar)
	assert.Equal(t, "127.0.0.1", cfg.Server.ListenAddr)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, time.Second, cfg.Server.TickInterval)
	assert.Equal(t, "uhcd.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, 10, cfg.Game.MinuteMarker)
	assert.Equal(t, 2, cfg.Game.TeamSize)
	assert.Equal(t, 30, cfg.Game.RevealNames)
	assert.Equal(t, 120, cfg.Game.DisconnectGraceSecs)
	assert.Equal(t, "off", cfg.Game.Eternal.Mode)
	assert.Equal(t, 1000, cfg.Game.WorldBorder.Start)
	assert.Equal(t, 100, cfg.Game.WorldBorder.Finish)
	assert.Len(t, cfg.Game.TeamNames, 15)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  jar: uhc-1.9.jar
  http_port: 9090
game:
  x: 500
  z: -500
  playersperteam: 3
  disconnectgrace: 90
  eternal:
    mode: day
    timebegin: 45
  worldborder:
    start: 2000
    finish: 50
    timebegin: 90
    duration: 45
  ops:
    - Host
    - CoHost
  teamnames:
    - Reds
    - Blues
`))
	require.NoError(t, err)

	assert.Equal(t, "uhc-1.9.jar", cfg.Server.Jar)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 500, cfg.Game.CentreX)
	assert.Equal(t, -500, cfg.Game.CentreZ)
	assert.Equal(t, 3, cfg.Game.TeamSize)
	assert.Equal(t, 90, cfg.Game.DisconnectGraceSecs)
	assert.Equal(t, "day", cfg.Game.Eternal.Mode)
	assert.Equal(t, 45, cfg.Game.Eternal.TimeBegin)
	assert.Equal(t, 2000, cfg.Game.WorldBorder.Start)
	assert.Equal(t, []string{"Host", "CoHost"}, cfg.Game.Ops)
	assert.Equal(t, []string{"Reds", "Blues"}, cfg.Game.TeamNames)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [not a map"))
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := writeConfig(t, "{}")
	cfg, err := Load(path)
	require.NoError(t, err)

	// Runtime-mutable fields changed by operator commands persist on save
	cfg.Game.CentreX = 321
	cfg.Game.MinuteMarker = 5
	cfg.Game.WorldBorder.Finish = 64
	require.NoError(t, cfg.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 321, reloaded.Game.CentreX)
	assert.Equal(t, 5, reloaded.Game.MinuteMarker)
	assert.Equal(t, 64, reloaded.Game.WorldBorder.Finish)
}

func TestSave_RequiresBackingFile(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Save())
}
