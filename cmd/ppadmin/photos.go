package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/models"
)

var photosCmd = &cobra.Command{
	Use:   "photos",
	Short: "Shared photo albums",
}

func printPhotos(photos []models.PhotoSubmission) {
	if len(photos) == 0 {
		fmt.Println("No shared photos found.")
		return
	}
	for _, p := range photos {
		fmt.Printf("%s  %-12s  %s  %s\n",
			colorize(colorCyan, p.ID),
			p.PackageID,
			p.DriveLink,
			truncate(p.Description, 40),
		)
	}
}

var photosListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List every traveller's submissions",
	Annotations: guarded("admin"),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPhotos(current.deps())
		keyword, _ := cmd.Flags().GetString(admin.PhotoKeyword)
		page, _ := cmd.Flags().GetInt("page")

		var err error
		if keyword == "" {
			err = load(cmd.Context(), p.List)
		} else {
			err = p.Search(cmd.Context(), keyword)
		}
		if err != nil {
			return err
		}
		p.List.SetPage(page - 1)

		printPhotos(collect(p.List.Visible()))
		if p.List.Count() > 0 {
			printStatus("Page", "%d of %d", p.List.Page()+1, p.List.PageCount())
		}
		return nil
	},
}

var photosMineCmd = &cobra.Command{
	Use:         "mine",
	Short:       "List your own submissions",
	Annotations: guarded("protected"),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPhotos(current.deps())
		photos, err := p.Mine(cmd.Context())
		if err != nil {
			return err
		}
		printPhotos(photos)
		return nil
	},
}

var photosShareCmd = &cobra.Command{
	Use:         "share",
	Short:       "Share a photo album link for a package",
	Annotations: guarded("protected"),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, _ := cmd.Flags().GetString("package")
		link, _ := cmd.Flags().GetString("link")
		desc, _ := cmd.Flags().GetString("description")
		if pkg == "" || link == "" {
			return errors.New("--package and --link are required")
		}
		p := admin.NewPhotos(current.deps())
		sub, err := p.Share(cmd.Context(), pkg, link, desc)
		if err != nil {
			return err
		}
		if sub.ID != "" {
			printStatus("ID", "%s", sub.ID)
		}
		return nil
	},
}

func init() {
	photosListCmd.Flags().String(admin.PhotoKeyword, "", "search keyword")
	photosListCmd.Flags().Int("page", 1, "page number")

	photosShareCmd.Flags().String("package", "", "package id")
	photosShareCmd.Flags().String("link", "", "shared album link")
	photosShareCmd.Flags().String("description", "", "what the photos show")

	photosCmd.AddCommand(photosListCmd)
	photosCmd.AddCommand(photosMineCmd)
	photosCmd.AddCommand(photosShareCmd)
}
