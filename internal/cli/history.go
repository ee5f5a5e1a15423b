package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yolodolo42/msgsign/internal/history"
	"github.com/yolodolo42/msgsign/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently produced signatures",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum number of entries")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}
	store, err := history.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(limit)
	if err != nil {
		return err
	}
	printHistory(cmd.OutOrStdout(), entries)
	return nil
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, ui.HelpStyle.Render("No signatures recorded."))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %d  %s  %s\n", ui.SymbolArrow, e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Address)
		fmt.Fprintf(w, "    keypath   %s\n", e.Keypath)
		fmt.Fprintf(w, "    digest    %s\n", e.Digest)
		fmt.Fprintf(w, "    signature %s\n", e.Signature)
	}
}
