package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/models"
	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var treeJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the category/note hierarchy",
		Long: `Print the full hierarchy of categories and notes.

Categories print before notes at each level; siblings are ordered by their
sort order with an alphabetical tiebreak.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()
			if err := s.Session.Load(ctx); err != nil {
				return fmt.Errorf("load tree: %w", err)
			}

			roots := s.Session.Tree()
			if treeJSON {
				data, err := json.MarshalIndent(roots, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(roots) == 0 {
				fmt.Println("No notes yet. Create one with: iris new <title>")
				return nil
			}
			printNodes(roots, 0)
			return nil
		},
	}

	cmd.Flags().BoolVar(&treeJSON, "json", false, "Output the tree as JSON")
	return cmd
}

func printNodes(nodes []*models.TreeNode, depth int) {
	for _, n := range nodes {
		marker := "•"
		if n.Kind == models.KindCategory {
			marker = "▸"
		}
		fmt.Printf("%s%s %s  (%s)\n", strings.Repeat("  ", depth), marker, n.Name, n.ID)
		printNodes(n.Children, depth+1)
	}
}
