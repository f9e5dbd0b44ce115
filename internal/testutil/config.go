package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/lepinkainen/bookshelf/internal/config"
)

// ResetConfig resets viper now and again when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetTestConfig resets viper and points both Open Library endpoints at baseURL,
// with rate limiting disabled.
func SetTestConfig(t *testing.T, baseURL string) {
	t.Helper()

	ResetConfig(t)
	config.SetDefaults()

	viper.Set(config.KeySearchURL, baseURL+"/search.json")
	viper.Set(config.KeyDetailURL, baseURL+"/api/books")
	viper.Set(config.KeyRateLimit, 0)
}
