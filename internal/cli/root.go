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

	"github.com/jeremyhahn/go-cryptoservices/internal/config"
	"github.com/jeremyhahn/go-cryptoservices/pkg/keymanager"
	"github.com/jeremyhahn/go-cryptoservices/pkg/logging"
	"github.com/jeremyhahn/go-cryptoservices/pkg/provider"
	"github.com/jeremyhahn/go-cryptoservices/pkg/storage/file"
	"github.com/spf13/cobra"
)

var (
	// Flag values bound on the root command
	configFile   string
	serviceFlag  string
	storageDir   string
	outputFormat string
	verbose      bool

	// Global configuration resolved in PersistentPreRunE
	globalConfig *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cryptosvc",
	Short: "cryptosvc - identifier-indirected cryptographic services",
	Long: `cryptosvc provides encryption, decryption, hashing, key generation,
and key lifecycle management over a secure storage layer. Data never
crosses the command line directly: operations take storage identifiers
and return the identifier of the stored result.

Providers:
  - standard:        AES-256-CBC/GCM, SHA-2, PBKDF2
  - platformNative:  AES-256-GCM, SHA-2, PBKDF2 (requires hardware security)
  - crossPlatform:   ChaCha20-Poly1305, SHA-2 + BLAKE3, PBKDF2 + Argon2id`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("service") {
			cfg.ServiceType = serviceFlag
		}
		if cmd.Flags().Changed("storage-dir") {
			cfg.StorageDir = storageDir
		}
		if verbose {
			cfg.EnhancedLogging = true
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		globalConfig = cfg
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (YAML; CRYPTOSVC_* environment variables override it)")
	rootCmd.PersistentFlags().StringVar(&serviceFlag, "service", "standard",
		"service type (standard, platformNative, crossPlatform)")
	rootCmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "",
		"root directory of the file-backed secure storage")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output with debug logging")

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime bundles the collaborators a subcommand needs.
type runtime struct {
	provider   provider.Provider
	keymanager *keymanager.KeyManager
	loader     *provider.Loader
	storage    *file.FileStorage
}

// newRuntime wires storage, loader, provider, and key manager from the
// resolved configuration.
func newRuntime() (*runtime, error) {
	cfg := globalConfig

	store, err := file.New(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	logger := logging.NewLogger(cfg.EnhancedLogging)

	loader, err := provider.NewLoader(store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	p, err := loader.Load(cfg.Service(), cfg.Environment())
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	km, err := keymanager.New(store, logger, nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{
		provider:   p,
		keymanager: km,
		loader:     loader,
		storage:    store,
	}, nil
}

// close releases the runtime in dependency order.
func (r *runtime) close() {
	_ = r.loader.Close()
	_ = r.storage.Close()
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(outputFormat, os.Stderr)
	_ = printer.PrintError(err)
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
