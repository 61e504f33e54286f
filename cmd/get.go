package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-pwsafe/internal/parsers/records"
)

var (
	getShowPassword bool
	getShowHistory  bool
)

var getCmd = &cobra.Command{
	Use:   "get <title|uuid>",
	Short: "Show one entry",
	Long: `Show a single entry, looked up by title or by uuid. The password is
withheld unless --show-password is given.

Examples:
  pwsafe get Bank --file personal.psafe3
  pwsafe get 8a9e40d4-4d0a-4f06-8e2c-01f4f5c882e1 --show-password`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runGet(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getShowPassword, "show-password", false, "print the entry password")
	getCmd.Flags().BoolVar(&getShowHistory, "history", false, "print retired passwords (implies --show-password)")
}

func runGet(key string) error {
	db, err := openSafe()
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := lookupRecord(db.Records(), key)
	if err != nil {
		return err
	}

	fmt.Printf("title:    %s\n", rec.Title())
	if g := rec.Group(); g != "" {
		fmt.Printf("group:    %s\n", g)
	}
	if u := rec.Username(); u != "" {
		fmt.Printf("username: %s\n", u)
	}
	if u := rec.URL(); u != "" {
		fmt.Printf("url:      %s\n", u)
	}
	if e := rec.Email(); e != "" {
		fmt.Printf("email:    %s\n", e)
	}
	if n := rec.Notes(); n != "" {
		fmt.Printf("notes:    %s\n", strings.ReplaceAll(n, "\n", "\n          "))
	}
	if t := rec.CreationTime(); !t.IsZero() {
		fmt.Printf("created:  %s\n", t.Format("2006-01-02 15:04:05"))
	}
	if t := rec.ExpiryTime(); !t.IsZero() {
		fmt.Printf("expires:  %s\n", t.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("uuid:     %s\n", rec.UUID())

	if getShowPassword || getShowHistory {
		fmt.Printf("password: %s\n", rec.Password())
	}
	if getShowHistory {
		history, err := rec.PasswordHistory()
		if err != nil {
			return err
		}
		for _, entry := range history.Entries {
			fmt.Printf("retired:  %s (until %s)\n",
				entry.Password, entry.Time.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

// lookupRecord resolves key as a uuid first, then as an exact title. A title
// shared by several records is ambiguous and refused.
func lookupRecord(recs []*records.Record, key string) (*records.Record, error) {
	if u, err := uuid.Parse(key); err == nil {
		for _, r := range recs {
			if r.UUID() == u {
				return r, nil
			}
		}
		return nil, fmt.Errorf("no entry with uuid %s", u)
	}

	var matches []*records.Record
	for _, r := range recs {
		if r.Title() == key {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no entry titled %q", key)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d entries titled %q, use the uuid", len(matches), key)
	}
}
