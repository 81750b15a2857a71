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
	"os"

	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"github.com/spf13/cobra"
)

// hashCmd digests stored data
var hashCmd = &cobra.Command{
	Use:   "hash <data-id>",
	Short: "Hash stored data",
	Long: `Compute a digest of the data stored under <data-id> and print the
identifier of the stored digest.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		opts, err := hashingOptions(cmd)
		if err != nil {
			handleError(err)
			return
		}

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		id, err := rt.provider.Hash(args[0], opts)
		if err != nil {
			handleError(fmt.Errorf("hash failed: %w", err))
			return
		}
		if err := printer.PrintIdentifier("hash", id); err != nil {
			handleError(err)
		}
	},
}

// verifyCmd recomputes and compares a stored digest
var verifyCmd = &cobra.Command{
	Use:   "verify <data-id> <hash-id>",
	Short: "Verify stored data against a stored digest",
	Long: `Recompute the digest of the data stored under <data-id> and compare
it against the digest stored under <hash-id>. Prints "match" or
"mismatch"; a mismatch exits with status 2.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		opts, err := hashingOptions(cmd)
		if err != nil {
			handleError(err)
			return
		}

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		match, err := rt.provider.VerifyHash(args[0], args[1], opts)
		if err != nil {
			handleError(fmt.Errorf("verify failed: %w", err))
			return
		}
		if err := printer.PrintVerification(match); err != nil {
			handleError(err)
			return
		}
		if !match {
			os.Exit(2)
		}
	},
}

func hashingOptions(cmd *cobra.Command) (types.HashingOptions, error) {
	algorithm, _ := cmd.Flags().GetString("algorithm")
	opts := types.HashingOptions{}
	if algorithm != "" {
		opts.Algorithm = types.ParseHashAlgorithm(algorithm)
		if !opts.Algorithm.Valid() {
			return opts, fmt.Errorf("unknown hash algorithm %q", algorithm)
		}
	}
	return opts, nil
}

func init() {
	for _, cmd := range []*cobra.Command{hashCmd, verifyCmd} {
		cmd.Flags().String("algorithm", "",
			"hash algorithm (sha-256, sha-384, sha-512, blake3); provider default when unset")
	}
}
