package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/services"
)

var (
	// Global flags
	safePath string
	verbose  bool

	cfg *Config
)

var rootCmd = &cobra.Command{
	Use:   "pwsafe",
	Short: "Password Safe v3 database tool",
	Long: `pwsafe reads and writes Password Safe version 3 database files
(.psafe3). It can create safes, list and retrieve entries, add and delete
entries, verify file integrity, and change the master passphrase.

The safe file path comes from --file, the PWSAFE_DEFAULT_SAFE environment
variable, or the default_safe key in pwsafe-config.yaml.`,
	Version: "0.1.0-dev",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return err
		}
		if safePath == "" {
			safePath = cfg.DefaultSafe
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&safePath, "file", "f", "", "path to the safe file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// requireSafePath fails fast when no safe file was named by flag, env, or
// config.
func requireSafePath() error {
	if safePath == "" {
		return fmt.Errorf("no safe file given: use --file or set default_safe in the config")
	}
	return nil
}

// openSafe prompts for the master passphrase and opens the configured safe.
// The passphrase is wiped before returning.
func openSafe() (*services.Database, error) {
	if err := requireSafePath(); err != nil {
		return nil, err
	}
	passphrase, err := promptPassphrase(false)
	if err != nil {
		return nil, err
	}
	defer wipe(passphrase)

	db, err := services.Open(safePath, passphrase, services.OpenOptions{
		MinIterations: cfg.MinIterations,
	})
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "opened %s: %d records, %d key-stretch iterations\n",
			safePath, db.Len(), db.Iterations())
	}
	return db, nil
}
