package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_NoCommandIsUsageError(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	out, err := env.run(t)
	require.ErrorIs(t, err, errMissingCommand)
	assert.Contains(t, out, "search")
}

func TestRoot_UnknownCommand(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	_, err := env.run(t, "starships")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRoot_MissingConfigFile(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/api")

	_, err := env.run(t, "--config", "/does/not/exist.yaml", "cache", "--list")
	require.Error(t, err)
}

func TestRoot_RegistersCommands(t *testing.T) {
	cmd := NewRootCmd("1.2.3")

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"search", "cache", "visuals"})
	assert.Equal(t, "1.2.3", cmd.Version)
}
