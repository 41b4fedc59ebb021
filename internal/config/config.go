package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/faisalkp/mahaldesk/internal/common"
	"github.com/faisalkp/mahaldesk/internal/listsync"
)

// Settings is the resolved client configuration.
type Settings struct {
	BaseURL  string
	Token    string
	PageSize int
	Debounce time.Duration
}

// Load resolves settings from viper (config file, MAHALDESK_* env, flags).
// The bearer token may be given inline (api.token) or as a file path
// (api.token_file); the file wins when both are set so secrets can stay out
// of the config file.
func Load() (Settings, error) {
	baseURL := strings.TrimSpace(viper.GetString("api.base_url"))
	if baseURL == "" {
		return Settings{}, fmt.Errorf("%w: api.base_url is required", common.ErrMissingConfig)
	}

	token, err := resolveToken()
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		BaseURL:  baseURL,
		Token:    token,
		PageSize: viper.GetInt("list.page_size"),
		Debounce: viper.GetDuration("list.debounce"),
	}
	if s.PageSize <= 0 {
		s.PageSize = listsync.DefaultPageSize
	}
	if s.Debounce <= 0 {
		s.Debounce = listsync.DefaultDebounce
	}
	return s, nil
}

func resolveToken() (string, error) {
	if tokenFile := viper.GetString("api.token_file"); tokenFile != "" {
		raw, err := os.ReadFile(ExpandPath(tokenFile))
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		token := strings.TrimSpace(string(raw))
		if token == "" {
			return "", fmt.Errorf("%w: token file %s is empty", common.ErrInvalidConfig, tokenFile)
		}
		return token, nil
	}

	token := strings.TrimSpace(viper.GetString("api.token"))
	if token == "" {
		return "", fmt.Errorf("%w: set api.token or api.token_file", common.ErrMissingConfig)
	}
	return token, nil
}
