package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/procdash/internal/config"
)

// SetupCLI isolates a command test: config and state directories point at
// temp dirs, viper holds only defaults, and the API base URL is baseURL
// when non-empty. Logging is left enabled so commands write procdash.log
// into the temp state dir.
func SetupCLI(t *testing.T, baseURL string) (stateDir string) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	viper.Reset()
	config.SetDefaults()
	viper.Set("api.requests_per_second", 0)
	if baseURL != "" {
		viper.Set("api.base_url", baseURL)
	}
	t.Cleanup(viper.Reset)

	return config.StateDir()
}
