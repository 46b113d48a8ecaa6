package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/service"
	"github.com/irisnotes/iris-notes/pkg/storage"
)

func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		listCategoryID string
		listJSON       bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List notes",
		Aliases: []string{"ls"},
		Long: `List notes, flat.

Examples:
  iris list                      # All notes
  iris list --in <category-id>   # Notes directly under one category`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			filter := storage.NoteFilter{}
			if listCategoryID != "" {
				filter.CategoryID = &listCategoryID
			}
			notes, err := s.Store.Notes(ctx, filter)
			if err != nil {
				return fmt.Errorf("list notes: %w", err)
			}

			if listJSON {
				data, err := json.MarshalIndent(notes, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(notes) == 0 {
				fmt.Println("No notes found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tMODIFIED")
			for _, n := range notes {
				fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Title, n.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&listCategoryID, "in", "", "Only notes directly under this category id")
	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	return cmd
}
