// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptoservices.
//
// go-cryptoservices is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// dataCmd groups raw data subcommands. These are the only commands that
// move bytes across the storage boundary.
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Import, export, and delete stored data",
	Long: `Move raw bytes in and out of secure storage. All other commands
operate purely on storage identifiers.`,
}

// dataImportCmd reads a file (or stdin) into secure storage
var dataImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import raw data into secure storage",
	Long: `Read bytes from a file, or stdin when no file is given, store them,
and print the identifier. With --id the data is stored under the given
identifier instead of a generated one.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)
		chosenID, _ := cmd.Flags().GetString("id")

		var raw []byte
		var err error
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			handleError(fmt.Errorf("failed to read input: %w", err))
			return
		}

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		id := chosenID
		if id == "" {
			id, err = rt.provider.ImportData(raw)
		} else {
			err = rt.provider.StoreData(raw, id)
		}
		if err != nil {
			handleError(fmt.Errorf("failed to import data: %w", err))
			return
		}
		if err := printer.PrintIdentifier("import", id); err != nil {
			handleError(err)
		}
	},
}

// dataExportCmd writes stored bytes to a file or stdout
var dataExportCmd = &cobra.Command{
	Use:   "export <id> [file]",
	Short: "Export stored data",
	Long:  `Write the bytes stored under <id> to a file, or stdout when no file is given.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		raw, err := rt.provider.ExportData(args[0])
		if err != nil {
			handleError(fmt.Errorf("failed to export data: %w", err))
			return
		}

		if len(args) == 2 {
			if err := os.WriteFile(args[1], raw, 0o600); err != nil {
				handleError(fmt.Errorf("failed to write output: %w", err))
			}
			return
		}
		if _, err := os.Stdout.Write(raw); err != nil {
			handleError(err)
		}
	},
}

// dataDeleteCmd removes a stored object
var dataDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete stored data",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		if err := rt.provider.DeleteData(args[0]); err != nil {
			handleError(fmt.Errorf("failed to delete data: %w", err))
			return
		}
		if err := printer.PrintSuccess(fmt.Sprintf("Deleted: %s", args[0])); err != nil {
			handleError(err)
		}
	},
}

func init() {
	dataImportCmd.Flags().String("id", "", "store under this identifier instead of a generated one")

	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataDeleteCmd)
}
