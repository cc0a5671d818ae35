// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yekta/folio/internal/logging"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "folio",
		Short: "Content server for a multilingual personal site",
		Long: `folio serves CV, portfolio, documents and knowledge-base content
from flat files and lets the site owner edit them in place from admin mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// .env is optional.
			_ = godotenv.Load()

			level := os.Getenv("FOLIO_LOG_LEVEL")
			if verbose {
				level = "debug"
				_ = os.Setenv("FOLIO_LOG_LEVEL", level)
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newServeCmd(), newHashPasswordCmd(), newVersionCmd())
	return root
}
