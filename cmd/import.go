package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/frontmatter"
	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewImportCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.md>...",
		Short: "Import markdown files as notes",
		Long: `Import markdown files as notes.

Files with a YAML frontmatter block keep their title and category path
(missing categories are created along the way). Files without frontmatter
become root-level notes titled after the filename.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			ctx := context.Background()

			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				fm, body, err := frontmatter.Parse(string(data))
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}

				title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				categoryPath := ""
				contentType := ""
				if fm != nil {
					if fm.Title != "" {
						title = fm.Title
					}
					categoryPath = fm.Category
					contentType = fm.ContentType
				}

				categoryID, err := s.ResolveCategoryPath(ctx, categoryPath)
				if err != nil {
					return fmt.Errorf("resolve category for %s: %w", path, err)
				}

				note, err := s.CreateNote(ctx, title, categoryID, strings.TrimPrefix(body, "\n"), contentType)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				fmt.Printf("Imported %s as %q (%s)\n", path, note.Title, note.ID)
			}
			return nil
		},
	}
	return cmd
}
