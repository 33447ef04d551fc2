package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultInboundURL, cfg.Pager.InboundURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[telegram]
bot_token = "123:abc"

[pager]
channel_key = "secret"
inbound_url = "https://pager.example/api/webhooks/custom"

[store]
path = "relay.db"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "secret", cfg.Pager.ChannelKey)
	assert.Equal(t, "https://pager.example/api/webhooks/custom", cfg.Pager.InboundURL)
	assert.Equal(t, "relay.db", cfg.Store.Path)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[pager]\nchannel_key = \"from-file\"\n"), 0o600))

	t.Setenv("PAGER_CHANNEL_KEY", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Pager.ChannelKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestValidateRequiresCredentials(t *testing.T) {
	var cfg Config
	require.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = "123:abc"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGER_CHANNEL_KEY")

	cfg.Pager.ChannelKey = "secret"
	assert.NoError(t, cfg.Validate())
}
