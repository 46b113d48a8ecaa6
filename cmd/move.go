package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewMoveCmd(svc **service.Service) *cobra.Command {
	var (
		moveTo       string
		movePosition int
	)

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a note or category to a new parent",
		Long: `Move a note or category to a new parent category, or to the root.

A category cannot move under itself or one of its descendants, and the
hierarchy never nests deeper than three category levels. Notes can only sit
under a category or at the root.

Examples:
  iris move <id> --to <category-id>
  iris move <id>                       # move to the root level
  iris move <id> --to <category-id> --at 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			if err := s.Session.Load(ctx); err != nil {
				return fmt.Errorf("load tree: %w", err)
			}

			var newParent *string
			if moveTo != "" {
				newParent = &moveTo
			}
			var position *int
			if cmd.Flags().Changed("at") {
				position = &movePosition
			}

			if err := s.Session.Move(ctx, args[0], newParent, position); err != nil {
				return fmt.Errorf("move %s: %w", args[0], err)
			}

			if newParent == nil {
				fmt.Printf("Moved %s to the root level\n", args[0])
			} else {
				fmt.Printf("Moved %s under %s\n", args[0], *newParent)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&moveTo, "to", "", "Target category id (omit for root)")
	cmd.Flags().IntVar(&movePosition, "at", 0, "Sibling position to insert at")
	return cmd
}
