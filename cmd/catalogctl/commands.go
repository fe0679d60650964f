package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"catalog/internal/models"
	"catalog/pkg/catalogclient"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const serverKey = "server"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetDefault(serverKey, catalogclient.DefaultBaseURL)
	v.AutomaticEnv()

	api := func() catalogclient.API { return catalogclient.New(v.GetString(serverKey)) }

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Manage products in the catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().String(serverKey, catalogclient.DefaultBaseURL, "catalog API base URL (env CATALOG_SERVER)")
	_ = v.BindPFlag(serverKey, root.PersistentFlags().Lookup(serverKey))

	root.AddCommand(
		newListCmd(api),
		newGetCmd(api),
		newInsertCmd(api),
		newUpdateCmd(api),
		newDeleteCmd(api),
		newCategoriesCmd(),
	)
	return root
}

func newListCmd(api func() catalogclient.API) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderCollection(cmd.OutOrStdout(), catalogclient.NewCollectionView(api()))
		},
	}
}

func newGetCmd(api func() catalogclient.API) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := catalogclient.NewDetailView(api())
			if view.Load(args[0]) != catalogclient.StateReady {
				return errors.New(view.Message())
			}
			printProduct(cmd.OutOrStdout(), *view.Product())
			return nil
		},
	}
}

type productFlags struct {
	name, price, barcode, description, image, category, sku string
}

func (f *productFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "product name")
	flags.StringVar(&f.price, "price", "", "price in rupees, digits only (separators are ignored)")
	flags.StringVar(&f.barcode, "barcode", "", "numeric barcode, up to 12 digits")
	flags.StringVar(&f.description, "description", "", "product description")
	flags.StringVar(&f.image, "image", "", "product image URL")
	flags.StringVar(&f.category, "category", "", "category, see 'catalogctl categories'")
	flags.StringVar(&f.sku, "sku", "", "stock keeping unit")
}

// apply copies the flags that were set on cmd into form.
func (f *productFlags) apply(cmd *cobra.Command, form *catalogclient.ProductForm) {
	changed := cmd.Flags().Changed
	setters := []struct {
		flag  string
		value string
		set   func(string)
	}{
		{"name", f.name, form.SetName},
		{"price", f.price, form.SetPrice},
		{"barcode", f.barcode, form.SetBarcode},
		{"description", f.description, form.SetDescription},
		{"image", f.image, form.SetImage},
		{"category", f.category, form.SetCategory},
		{"sku", f.sku, form.SetSKU},
	}
	for _, s := range setters {
		if changed(s.flag) {
			s.set(s.value)
		}
	}
}

func newInsertCmd(api func() catalogclient.API) *cobra.Command {
	var flags productFlags
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !models.IsKnownCategory(flags.category) && flags.category != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not one of the listed categories\n", flags.category)
			}

			client := api()
			form := catalogclient.NewProductForm()
			flags.apply(cmd, form)
			created, err := form.Submit(client)
			if err != nil {
				return errors.New(form.Message())
			}
			for _, p := range created {
				fmt.Fprintf(out, "Product added: %s (%s)\n", p.ProductName, p.ID)
			}
			fmt.Fprintln(out)
			return renderCollection(out, catalogclient.NewCollectionView(client))
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(api func() catalogclient.API) *cobra.Command {
	var flags productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api()
			view := catalogclient.NewDetailView(client)
			if view.Load(args[0]) != catalogclient.StateReady {
				return errors.New(view.Message())
			}

			row := catalogclient.NewRowEditor(client, nil, *view.Product())
			form, err := row.Edit()
			if err != nil {
				return err
			}
			flags.apply(cmd, form)
			updated, err := row.Save()
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Product updated.")
			printProduct(cmd.OutOrStdout(), *updated)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(api func() catalogclient.API) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api()
			view := catalogclient.NewDetailView(client)
			if view.Load(args[0]) != catalogclient.StateReady {
				return errors.New(view.Message())
			}

			row := catalogclient.NewRowEditor(client, nil, *view.Product())
			question, err := row.RequestDelete()
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
				_ = row.Cancel()
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := row.ConfirmDelete(); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", row.Product().ProductName)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the product categories offered by the entry form",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, c := range models.Categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}
}

func renderCollection(w io.Writer, view *catalogclient.CollectionView) error {
	switch view.Load() {
	case catalogclient.StateError:
		return errors.New(view.Message())
	case catalogclient.StateEmpty:
		fmt.Fprintln(w, view.Message())
		fmt.Fprintf(w, "%s: catalogctl insert --help\n", catalogclient.MsgAddProduct)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tSKU\tBARCODE")
	for _, p := range view.Products() {
		fmt.Fprintf(tw, "%s\t%s\t₹ %s\t%s\t%s\t%d\n",
			p.ID, p.ProductName, catalogclient.FormatIndianNumber(p.ProductPrice), p.ProductCategory, p.ProductSKU, p.ProductBarcode)
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p models.Product) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.ProductName)
	fmt.Fprintf(tw, "Price:\t₹ %s\n", catalogclient.FormatIndianNumber(p.ProductPrice))
	fmt.Fprintf(tw, "Barcode:\t%d\n", p.ProductBarcode)
	fmt.Fprintf(tw, "Category:\t%s\n", p.ProductCategory)
	fmt.Fprintf(tw, "SKU:\t%s\n", p.ProductSKU)
	fmt.Fprintf(tw, "Image:\t%s\n", p.ProductImage)
	fmt.Fprintf(tw, "Description:\t%s\n", p.ProductDescription)
	_ = tw.Flush()
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
