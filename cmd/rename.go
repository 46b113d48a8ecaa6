package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewRenameCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id> <new name>",
		Short: "Rename a note or category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			if err := s.Session.Load(ctx); err != nil {
				return fmt.Errorf("load tree: %w", err)
			}

			id := args[0]
			newName := strings.Join(args[1:], " ")
			if err := s.Session.Rename(ctx, id, newName); err != nil {
				return fmt.Errorf("rename %s: %w", id, err)
			}
			fmt.Printf("Renamed %s to %q\n", id, strings.TrimSpace(newName))
			return nil
		},
	}
	return cmd
}
