package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paradisepeak/ppadmin/internal/admin"
)

var packagesCmd = &cobra.Command{
	Use:         "packages",
	Short:       "Manage tour packages",
	Annotations: guarded("admin"),
}

var packagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages with totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPackages(current.deps())
		if err := load(cmd.Context(), p.List); err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString(admin.PackageSearch)
		typ, _ := cmd.Flags().GetString(admin.PackageType)
		p.List.SetFilter(admin.PackageSearch, search)
		p.List.SetFilter(admin.PackageType, typ)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(collect(p.List.Visible()))
		}

		stats := p.Stats()
		printStatus("Total", "%d", stats.Total)
		printStatus("Active", "%d", stats.Active)
		n := 0
		for pkg := range p.List.Visible() {
			fmt.Printf("%s  %-28s  %-16s  %-8s  %8.2f %s\n",
				colorize(colorCyan, pkg.ID),
				truncate(pkg.Title, 28),
				truncate(pkg.Type, 16),
				pkg.Status,
				pkg.Price, pkg.Currency,
			)
			n++
		}
		if n == 0 {
			fmt.Println("No packages found.")
		}
		return nil
	},
}

var packagesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List package types",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPackages(current.deps())
		if err := load(cmd.Context(), p.List); err != nil {
			return err
		}
		for _, t := range p.Types() {
			fmt.Println(t)
		}
		return nil
	},
}

var packagesShowCmd = &cobra.Command{
	Use:   "show <id-or-slug>",
	Short: "Show a package as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkg, err := current.client.PackageBySlug(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(pkg)
	},
}

var packagesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a package",
	Long: `Create a package.

Examples:
  ppadmin packages create --title "Tea Country" --price 450 --duration "3 days" \
    --difficulty Easy --highlights "Tea estates,Nine Arch Bridge" \
    --main-image ./cover.jpg --images ./1.jpg --images ./2.jpg \
    --day "Kandy|Temple of the Tooth" --day "Ella|Little Adam's Peak"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPackages(current.deps())
		pkg, err := saveForm(cmd, p.List, p.Form, admin.PackageSchema, "")
		if err != nil {
			return err
		}
		if pkg.ID != "" {
			printStatus("ID", "%s", pkg.ID)
		}
		return nil
	},
}

var packagesEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a package; only the flags given change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPackages(current.deps())
		_, err := saveForm(cmd, p.List, p.Form, admin.PackageSchema, args[0])
		return err
	},
}

var packagesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := admin.NewPackages(current.deps())
		return p.Delete(cmd.Context(), args[0])
	},
}

func init() {
	packagesListCmd.Flags().String(admin.PackageSearch, "", "part of the title")
	packagesListCmd.Flags().String(admin.PackageType, "", "package type, or All")
	packagesListCmd.Flags().Bool("json", false, "print JSON")

	addFormFlags(packagesCreateCmd, admin.PackageSchema, false)
	addFormFlags(packagesEditCmd, admin.PackageSchema, true)

	packagesCmd.AddCommand(packagesListCmd)
	packagesCmd.AddCommand(packagesTypesCmd)
	packagesCmd.AddCommand(packagesShowCmd)
	packagesCmd.AddCommand(packagesCreateCmd)
	packagesCmd.AddCommand(packagesEditCmd)
	packagesCmd.AddCommand(packagesDeleteCmd)
}
