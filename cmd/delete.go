package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/services"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <title|uuid>",
	Short: "Delete an entry",
	Long: `Delete a single entry, looked up by title or by uuid, and save the
safe.

Examples:
  pwsafe delete Bank --file personal.psafe3
  pwsafe delete 8a9e40d4-4d0a-4f06-8e2c-01f4f5c882e1`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runDelete(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(key string) error {
	db, err := openSafe()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := lookupRecord(db.Records(), key)
	if err != nil {
		return err
	}
	if err := db.RemoveRecord(rec.UUID()); err != nil {
		return err
	}
	if err := db.Save(safePath, services.SaveOptions{}); err != nil {
		return err
	}
	fmt.Printf("deleted %q (%s)\n", rec.Title(), rec.UUID())
	return nil
}
