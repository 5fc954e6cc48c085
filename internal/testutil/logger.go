// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger whose output goes nowhere, keeping test
// runs quiet.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
