package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/app/services"
	"github.com/shashiranjanraj/catalogapi/pkg/storage"
)

var (
	exportDisk string
	exportList bool
)

// catalog export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON snapshot of categories and products to storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			ctx := cmd.Context()
			m, err := storage.New(ctx, storage.FromEnv())
			if err != nil {
				return err
			}
			disk, err := m.Disk(exportDisk)
			if err != nil {
				return err
			}
			svc := services.NewExportService(db, disk)
			out := cmd.OutOrStdout()

			if exportList {
				files, err := svc.Exports(ctx)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(out, disk.URL(f))
				}
				return nil
			}

			res, err := svc.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d categories and %d products\n%s\n", res.Categories, res.Products, res.URL)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDisk, "disk", "", "storage disk to write to (default STORAGE_DISK)")
	exportCmd.Flags().BoolVar(&exportList, "list", false, "list existing exports instead of writing one")
}
