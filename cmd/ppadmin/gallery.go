package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
)

var galleryCmd = &cobra.Command{
	Use:         "gallery",
	Short:       "Manage gallery images",
	Annotations: guarded("admin"),
}

var galleryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of gallery items",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := admin.NewGallery(current.deps())
		if err := load(cmd.Context(), g.List); err != nil {
			return err
		}
		country, _ := cmd.Flags().GetString(admin.GalleryCountry)
		page, _ := cmd.Flags().GetInt("page")
		g.List.SetFilter(admin.GalleryCountry, country)
		g.List.SetPage(page - 1)

		n := 0
		for item := range g.List.Visible() {
			fmt.Printf("%s  %3d  %-12s  %s\n",
				colorize(colorCyan, item.ID),
				item.Reorder,
				item.Country,
				item.Title,
			)
			n++
		}
		if n == 0 {
			fmt.Println("No gallery items found.")
			return nil
		}
		printStatus("Page", "%d of %d", g.List.Page()+1, g.List.PageCount())
		return nil
	},
}

var galleryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a gallery item",
	RunE: func(cmd *cobra.Command, args []string) error {
		g := admin.NewGallery(current.deps())
		_, err := saveForm(cmd, g.List, g.Form, admin.GallerySchema, "")
		return err
	},
}

var galleryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a gallery item; only the flags given change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := admin.NewGallery(current.deps())
		_, err := saveForm(cmd, g.List, g.Form, admin.GallerySchema, args[0])
		return err
	},
}

var galleryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a gallery item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := admin.NewGallery(current.deps())
		return g.Delete(cmd.Context(), args[0])
	},
}

func init() {
	galleryListCmd.Flags().String(admin.GalleryCountry, "", "country")
	galleryListCmd.Flags().Int("page", 1, "page number")

	addFormFlags(galleryAddCmd, admin.GallerySchema, false)
	addFormFlags(galleryEditCmd, admin.GallerySchema, true)

	galleryCmd.AddCommand(galleryListCmd)
	galleryCmd.AddCommand(galleryAddCmd)
	galleryCmd.AddCommand(galleryEditCmd)
	galleryCmd.AddCommand(galleryDeleteCmd)
}
