package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/services"
)

var (
	rekeyNewWorkingKeys bool
	rekeyIterations     uint32
)

var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Change the master passphrase",
	Long: `Change the safe's master passphrase. The current passphrase is
prompted for first, then the new one twice. A fresh salt is always
generated; --new-keys additionally replaces the internal encryption keys so
the file body is re-encrypted from scratch.

Examples:
  pwsafe rekey --file personal.psafe3
  pwsafe rekey --new-keys --iterations 100000`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runRekey())
	},
}

func init() {
	rootCmd.AddCommand(rekeyCmd)

	rekeyCmd.Flags().BoolVar(&rekeyNewWorkingKeys, "new-keys", false, "also generate fresh internal encryption keys")
	rekeyCmd.Flags().Uint32Var(&rekeyIterations, "iterations", 0, "also change the key-stretch iteration count")
}

func runRekey() error {
	db, err := openSafe()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(os.Stderr, "Choose the new passphrase.")
	newPassphrase, err := promptPassphrase(true)
	if err != nil {
		return err
	}
	defer wipe(newPassphrase)

	if err := db.ChangePassphrase(newPassphrase, rekeyNewWorkingKeys); err != nil {
		return err
	}
	if rekeyIterations != 0 {
		if err := db.SetIterations(newPassphrase, rekeyIterations); err != nil {
			return err
		}
	}
	if err := db.Save(safePath, services.SaveOptions{}); err != nil {
		return err
	}
	fmt.Printf("rekeyed %s (%d key-stretch iterations)\n", safePath, db.Iterations())
	return nil
}
