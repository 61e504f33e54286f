package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listGroup    string
	listUsername string
	listLong     bool
	listWarnings bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries in the safe",
	Long: `List the entries of a safe in file order.

Examples:
  # List all entries
  pwsafe list --file personal.psafe3

  # List one group with uuids and timestamps
  pwsafe list --file personal.psafe3 --group Banking --long`,

	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(runList())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listGroup, "group", "", "only list entries in this group")
	listCmd.Flags().StringVar(&listUsername, "username", "", "only list entries with this username")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "show uuid and last modification time")
	listCmd.Flags().BoolVar(&listWarnings, "warnings", false, "report data-quality warnings")
}

func runList() error {
	db, err := openSafe()
	if err != nil {
		return err
	}
	defer db.Close()

	if name := db.Header().Name(); name != "" {
		fmt.Printf("safe: %s\n", name)
	}

	recs := db.Records()
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Group() != recs[j].Group() {
			return recs[i].Group() < recs[j].Group()
		}
		return recs[i].Title() < recs[j].Title()
	})

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, r := range recs {
		if listGroup != "" && !strings.EqualFold(r.Group(), listGroup) {
			continue
		}
		if listUsername != "" && !strings.EqualFold(r.Username(), listUsername) {
			continue
		}
		if listLong {
			modified := ""
			if t := r.LastModTime(); !t.IsZero() {
				modified = t.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.Group(), r.Title(), r.Username(), r.UUID(), modified)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Group(), r.Title(), r.Username())
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if listWarnings {
		for _, warning := range db.Validate() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
	}
	return nil
}
