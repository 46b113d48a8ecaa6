package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewNewCmd(svc **service.Service) *cobra.Command {
	var (
		newParentID    string
		newCategory    bool
		newContent     string
		newContentType string
	)

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a new note or category",
		Long: `Create a new note (default) or, with --category, a new category.

Examples:
  iris new "Meeting minutes"
  iris new "Meeting minutes" --in <category-id>
  iris new Work --category
  iris new Projects --category --in <category-id>`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}

			var parent *string
			if newParentID != "" {
				parent = &newParentID
			}

			if newCategory {
				cat, err := s.CreateCategory(ctx, title, parent)
				if err != nil {
					return fmt.Errorf("create category: %w", err)
				}
				fmt.Printf("Created category %q (%s)\n", cat.Name, cat.ID)
				return nil
			}

			note, err := s.CreateNote(ctx, title, parent, newContent, newContentType)
			if err != nil {
				return fmt.Errorf("create note: %w", err)
			}
			fmt.Printf("Created note %q (%s)\n", note.Title, note.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&newParentID, "in", "", "Parent category id (default: root)")
	cmd.Flags().BoolVar(&newCategory, "category", false, "Create a category instead of a note")
	cmd.Flags().StringVar(&newContent, "content", "", "Initial note content")
	cmd.Flags().StringVar(&newContentType, "content-type", "", "Note content type (default: markdown)")
	return cmd
}
