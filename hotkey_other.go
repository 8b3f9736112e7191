//go:build !windows

package main

import "context"

// RegisterRerollHotkey is a no-op outside Windows.
func (a *App) RegisterRerollHotkey(context.Context) {
	a.log.Debug().Msg("global hotkey not supported on this platform")
}
