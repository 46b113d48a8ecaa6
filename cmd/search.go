package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over note titles and content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			query := strings.Join(args, " ")

			results, err := s.Search(query, searchLimit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, r := range results {
				fmt.Printf("%s  %s\n", r.ID, r.Title)
				if r.Snippet != "" {
					fmt.Printf("    %s\n", r.Snippet)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "Maximum number of results")
	return cmd
}
