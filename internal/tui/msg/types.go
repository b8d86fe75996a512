package msg

import (
	"github.com/Iron-Ham/procdash/internal/api"
	"github.com/Iron-Ham/procdash/internal/config"
)

// PageLoadedMsg carries the result of a page fetch. Seq identifies the
// request; only the latest one is applied.
type PageLoadedMsg struct {
	Seq   uint64
	Query api.Query
	Page  *api.Page
	Err   error
}

// ErrMsg wraps an error to be displayed in the status bar.
type ErrMsg struct {
	Err error
}

// StatusMsg shows a transient notice in the status bar.
type StatusMsg struct {
	Text string
}

// ClearStatusMsg clears the status bar if it still shows notice ID.
type ClearStatusMsg struct {
	ID uint64
}

// ConfigReloadedMsg delivers a config file change that passed validation.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a config file change that could not be applied.
type ConfigErrorMsg struct {
	Err error
}
