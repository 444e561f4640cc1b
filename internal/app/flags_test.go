package app

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	cfg.Bind(fs)

	err := fs.Parse([]string{"-scale", "4", "-seed", "9", "-set", "agents=3", "-set", "w = 20", "-set", "agents=5"})
	require.NoError(t, err)

	assert.Equal(t, "cleaning", cfg.Sim)
	assert.Equal(t, 4, cfg.Scale)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, map[string]string{"agents": "5", "w": "20"}, cfg.Overrides.Map())
	assert.Equal(t, "agents=3,w = 20,agents=5", cfg.Overrides.String())
}

func TestKVListRejectsMissingEquals(t *testing.T) {
	var l KVList
	assert.Error(t, l.Set("agents"))
	assert.Empty(t, l)
}
