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
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/jeremyhahn/go-cryptoservices/pkg/types"
	"github.com/spf13/cobra"
)

// keyCmd groups key lifecycle subcommands
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage cryptographic keys",
	Long:  `Generate, list, rotate, derive, and delete managed keys`,
}

// keyGenerateCmd generates a new managed key
var keyGenerateCmd = &cobra.Command{
	Use:   "generate <key-id>",
	Short: "Generate a new key",
	Long:  `Generate fresh key material and store it under <key-id>.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)
		bits, _ := cmd.Flags().GetInt("bits")

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		printVerbose("Generating %d-bit key %s", bits, args[0])

		if _, err := rt.keymanager.GenerateKey(args[0], bits); err != nil {
			handleError(fmt.Errorf("failed to generate key: %w", err))
			return
		}
		if err := printer.PrintSuccess(fmt.Sprintf("Generated %d-bit key: %s", bits, args[0])); err != nil {
			handleError(err)
		}
	},
}

// keyListCmd lists managed key identifiers
var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed key identifiers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		ids, err := rt.keymanager.ListKeyIdentifiers()
		if err != nil {
			handleError(fmt.Errorf("failed to list keys: %w", err))
			return
		}
		if err := printer.PrintKeyList(ids); err != nil {
			handleError(err)
		}
	},
}

// keyRotateCmd rotates a managed key, optionally re-encrypting one
// ciphertext object in place
var keyRotateCmd = &cobra.Command{
	Use:   "rotate <key-id>",
	Short: "Rotate a managed key",
	Long: `Replace the key under <key-id> with fresh material. With --data-id,
the ciphertext stored under that identifier is decrypted with the old
key, re-encrypted with the new key, and written back in place.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)
		dataID, _ := cmd.Flags().GetString("data-id")

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		var blob []byte
		if dataID != "" {
			blob, err = rt.storage.Retrieve(dataID)
			if err != nil {
				handleError(fmt.Errorf("failed to read %s: %w", dataID, err))
				return
			}
		}

		result, err := rt.keymanager.RotateKey(args[0], blob)
		if err != nil {
			handleError(fmt.Errorf("failed to rotate key: %w", err))
			return
		}

		if result.ReencryptedData != nil {
			if err := rt.storage.Store(result.ReencryptedData, dataID); err != nil {
				handleError(fmt.Errorf("failed to write re-encrypted data: %w", err))
				return
			}
			printVerbose("Re-encrypted %s under the new key", dataID)
		}

		if err := printer.PrintSuccess(fmt.Sprintf("Rotated key: %s", args[0])); err != nil {
			handleError(err)
		}
	},
}

// keyDeriveCmd deterministically derives a key from a password and salt
var keyDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a key from a password and salt",
	Long: `Derive key material from --password and --salt (hex) and print the
identifier it was stored under. The same inputs always derive the same
key.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		password, _ := cmd.Flags().GetString("password")
		saltHex, _ := cmd.Flags().GetString("salt")
		kdfName, _ := cmd.Flags().GetString("kdf")
		length, _ := cmd.Flags().GetInt("length")

		salt, err := hex.DecodeString(saltHex)
		if err != nil {
			handleError(fmt.Errorf("invalid salt hex: %w", err))
			return
		}

		opts := types.KeyDerivationOptions{
			Password: password,
			Salt:     salt,
			Length:   length,
		}
		if kdfName != "" {
			opts.KDF = types.KeyDerivationFunction(strings.ToLower(kdfName))
			if !opts.KDF.Valid() {
				handleError(fmt.Errorf("unknown KDF %q", kdfName))
				return
			}
		}

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		id, err := rt.provider.DeriveKey(opts)
		if err != nil {
			handleError(fmt.Errorf("failed to derive key: %w", err))
			return
		}
		if err := printer.PrintIdentifier("deriveKey", id); err != nil {
			handleError(err)
		}
	},
}

// keyDeleteCmd deletes a managed key
var keyDeleteCmd = &cobra.Command{
	Use:   "delete <key-id>",
	Short: "Delete a managed key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(outputFormat, os.Stdout)

		rt, err := newRuntime()
		if err != nil {
			handleError(err)
			return
		}
		defer rt.close()

		if err := rt.keymanager.DeleteKey(args[0]); err != nil {
			handleError(fmt.Errorf("failed to delete key: %w", err))
			return
		}
		if err := printer.PrintSuccess(fmt.Sprintf("Deleted key: %s", args[0])); err != nil {
			handleError(err)
		}
	},
}

func init() {
	keyGenerateCmd.Flags().Int("bits", 256, "key length in bits")

	keyRotateCmd.Flags().String("data-id", "",
		"ciphertext identifier to re-encrypt under the new key")

	keyDeriveCmd.Flags().String("password", "", "password to derive from")
	keyDeriveCmd.Flags().String("salt", "", "derivation salt as hex")
	keyDeriveCmd.Flags().String("kdf", "",
		"key derivation function (pbkdf2, argon2id); provider default when unset")
	keyDeriveCmd.Flags().Int("length", 32, "derived key length in bytes")
	_ = keyDeriveCmd.MarkFlagRequired("password")
	_ = keyDeriveCmd.MarkFlagRequired("salt")

	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyListCmd)
	keyCmd.AddCommand(keyRotateCmd)
	keyCmd.AddCommand(keyDeriveCmd)
	keyCmd.AddCommand(keyDeleteCmd)
}
