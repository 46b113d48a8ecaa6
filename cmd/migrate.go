package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/irisnotes/iris-notes/pkg/migration"
	"github.com/irisnotes/iris-notes/pkg/service"
)

func NewMigrateCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy database and rebuild the search index",
		Long: `Convert a database using the old many-to-many note/category join table
to the direct parent-pointer model, then rebuild the search index.

The conversion also runs automatically when the database is opened; this
command exists to run it explicitly and report what happened.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			log := logrus.New()
			log.SetOutput(os.Stderr)
			report, err := migration.NewMigrator(s.Store.DB(), logrus.NewEntry(log)).Run()
			if err != nil {
				return fmt.Errorf("migration: %w", err)
			}

			if report.Ran {
				fmt.Printf("Converted %d notes (%d extra memberships dropped)\n",
					report.NotesConverted, report.JoinRowsDropped)
			} else {
				fmt.Println("Database already uses the direct parent-pointer model.")
			}

			if err := s.Index.Reindex(); err != nil {
				return fmt.Errorf("rebuild search index: %w", err)
			}
			fmt.Println("Search index rebuilt.")
			return nil
		},
	}
	return cmd
}
