package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/parsers/records"
	"github.com/deploymenttheory/go-pwsafe/internal/services"
)

var (
	addTitle    string
	addUsername string
	addGroup    string
	addURL      string
	addEmail    string
	addNotes    string
	addHistory  int
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new entry",
	Long: `Add an entry to the safe. The entry password is prompted for without
echo; all other fields come from flags.

Examples:
  pwsafe add --title Bank --username alice --group Banking
  pwsafe add --title Router --url https://192.168.1.1 --history 5`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runAdd())
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addTitle, "title", "", "entry title")
	addCmd.Flags().StringVar(&addUsername, "username", "", "entry username")
	addCmd.Flags().StringVar(&addGroup, "group", "", "entry group")
	addCmd.Flags().StringVar(&addURL, "url", "", "entry url")
	addCmd.Flags().StringVar(&addEmail, "email", "", "entry email address")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "entry notes")
	addCmd.Flags().IntVar(&addHistory, "history", 0, "keep this many retired passwords")
	addCmd.MarkFlagRequired("title")
}

func runAdd() error {
	if addHistory < 0 || addHistory > 255 {
		return fmt.Errorf("--history must be between 0 and 255, got %d", addHistory)
	}
	db, err := openSafe()
	if err != nil {
		return err
	}
	defer db.Close()

	password, err := promptSecret("Entry password")
	if err != nil {
		return err
	}
	defer wipe(password)

	rec, err := records.New(addTitle, addUsername, string(password))
	if err != nil {
		return err
	}
	if addGroup != "" {
		rec.SetGroup(addGroup)
	}
	if addURL != "" {
		rec.SetURL(addURL)
	}
	if addEmail != "" {
		rec.SetEmail(addEmail)
	}
	if addNotes != "" {
		rec.SetNotes(addNotes)
	}
	if addHistory > 0 {
		rec.EnablePasswordHistory(addHistory)
	}

	db.AddRecord(rec)
	if err := db.Save(safePath, services.SaveOptions{}); err != nil {
		return err
	}
	fmt.Printf("added %q (%s)\n", rec.Title(), rec.UUID())
	return nil
}
