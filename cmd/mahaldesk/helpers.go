package main

import (
	"log/slog"

	"github.com/faisalkp/mahaldesk/internal/api"
	"github.com/faisalkp/mahaldesk/internal/config"
	"github.com/faisalkp/mahaldesk/internal/listsync"
)

// newBackend resolves configuration and builds the API client every
// command shares.
func newBackend() (*api.Client, config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, config.Settings{}, err
	}

	client := api.NewClient(settings.BaseURL, settings.Token,
		api.WithAuthFailureHook(func() {
			slog.Warn("session rejected by backend; update api.token and retry")
		}),
	)
	return client, settings, nil
}

// listOptions maps resolved settings onto controller options.
func listOptions[T any](settings config.Settings) []listsync.ControllerOption[T] {
	return []listsync.ControllerOption[T]{
		listsync.WithPageSize[T](settings.PageSize),
		listsync.WithDebounce[T](settings.Debounce),
	}
}
