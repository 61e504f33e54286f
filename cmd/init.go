package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/services"
)

var (
	initIterations uint32
	initName       string
	initDesc       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty safe",
	Long: `Create a new safe file keyed to a fresh master passphrase.

Examples:
  # Create a safe with the configured iteration count
  pwsafe init --file personal.psafe3

  # Create a hardened safe with a name
  pwsafe init --file work.psafe3 --iterations 100000 --name "Work"`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runInit())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Uint32Var(&initIterations, "iterations", 0, "key-stretch iteration count (default from config)")
	initCmd.Flags().StringVar(&initName, "name", "", "database name header")
	initCmd.Flags().StringVar(&initDesc, "description", "", "database description header")
}

func runInit() error {
	if err := requireSafePath(); err != nil {
		return err
	}
	if _, err := os.Stat(safePath); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", safePath)
	}

	passphrase, err := promptPassphrase(true)
	if err != nil {
		return err
	}
	defer wipe(passphrase)

	iterations := initIterations
	if iterations == 0 {
		iterations = cfg.SaveIterations
	}
	db, err := services.New(passphrase, iterations)
	if err != nil {
		return err
	}
	defer db.Close()

	if initName != "" {
		db.Header().SetName(initName)
	}
	if initDesc != "" {
		db.Header().SetDescription(initDesc)
	}
	if err := db.Save(safePath, services.SaveOptions{}); err != nil {
		return err
	}
	fmt.Printf("created %s (%d key-stretch iterations)\n", safePath, iterations)
	return nil
}
