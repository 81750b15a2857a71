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

// encryptCmd encrypts stored data with a stored key
var encryptCmd = &cobra.Command{
	Use:   "encrypt <data-id> <key-id>",
	Short: "Encrypt stored data",
	Long: `Encrypt the data stored under <data-id> with the key stored under
<key-id> and print the identifier of the stored ciphertext.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		algorithm, _ := cmd.Flags().GetString("algorithm")
		aad, _ := cmd.Flags().GetString("aad")

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		opts := types.EncryptionOptions{}
		if algorithm != "" {
			opts.Algorithm = types.ParseEncryptionAlgorithm(algorithm)
			if !opts.Algorithm.Valid() {
				handleError(fmt.Errorf("unknown algorithm %q", algorithm))
				return
			}
		}
		if aad != "" {
			opts.AAD = []byte(aad)
		}

		printVerbose("Encrypting %s with key %s", args[0], args[1])

		id, err := rt.provider.Encrypt(args[0], args[1], opts)
		if err != nil {
			handleError(fmt.Errorf("encrypt failed: %w", err))
			return
		}
		if err := printer.PrintIdentifier("encrypt", id); err != nil {
			handleError(err)
		}
	},
}

// decryptCmd decrypts stored ciphertext with a stored key
var decryptCmd = &cobra.Command{
	Use:   "decrypt <data-id> <key-id>",
	Short: "Decrypt stored ciphertext",
	Long: `Decrypt the ciphertext stored under <data-id> with the key stored
under <key-id> and print the identifier of the stored plaintext.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		algorithm, _ := cmd.Flags().GetString("algorithm")
		aad, _ := cmd.Flags().GetString("aad")

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		opts := types.DecryptionOptions{}
		if algorithm != "" {
			opts.Algorithm = types.ParseEncryptionAlgorithm(algorithm)
			if !opts.Algorithm.Valid() {
				handleError(fmt.Errorf("unknown algorithm %q", algorithm))
				return
			}
		}
		if aad != "" {
			opts.AAD = []byte(aad)
		}

		printVerbose("Decrypting %s with key %s", args[0], args[1])

		id, err := rt.provider.Decrypt(args[0], args[1], opts)
		if err != nil {
			handleError(fmt.Errorf("decrypt failed: %w", err))
			return
		}
		if err := printer.PrintIdentifier("decrypt", id); err != nil {
			handleError(err)
		}
	},
}

func init() {
	encryptCmd.Flags().String("algorithm", "",
		"encryption algorithm (aes-256-cbc, aes-256-gcm, chacha20-poly1305); provider default when unset")
	encryptCmd.Flags().String("aad", "",
		"additional authenticated data (AEAD algorithms only)")

	decryptCmd.Flags().String("algorithm", "",
		"expected algorithm; fails when it differs from the stored envelope")
	decryptCmd.Flags().String("aad", "",
		"additional authenticated data used at encryption time")
}
