package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/frontmatter"
	"github.com/irisnotes/iris-notes/pkg/service"
	"github.com/irisnotes/iris-notes/pkg/storage"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var exportOutput string

	cmd := &cobra.Command{
		Use:   "export <note-id>",
		Short: "Export a note as markdown with YAML frontmatter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			notes, err := s.Store.Notes(ctx, storage.NoteFilter{})
			if err != nil {
				return fmt.Errorf("fetch notes: %w", err)
			}
			for _, n := range notes {
				if n.ID != args[0] {
					continue
				}
				path, err := s.CategoryPath(ctx, n.CategoryID)
				if err != nil {
					return fmt.Errorf("resolve category path: %w", err)
				}
				doc := frontmatter.BuildContent(&frontmatter.Frontmatter{
					ID:          n.ID,
					Title:       n.Title,
					Category:    path,
					ContentType: n.ContentType,
					Created:     frontmatter.FormatTimestamp(n.CreatedAt),
					Modified:    frontmatter.FormatTimestamp(n.UpdatedAt),
				}, n.Content)

				if exportOutput == "" || exportOutput == "-" {
					fmt.Println(doc)
					return nil
				}
				if err := os.WriteFile(exportOutput, []byte(doc+"\n"), 0644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Printf("Exported %s to %s\n", n.ID, exportOutput)
				return nil
			}
			return fmt.Errorf("note %q not found", args[0])
		},
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
