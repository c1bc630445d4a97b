package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/platform"
)

const productFlagUsage = "product identifier: id, name or {owner}{product}{} (default: the project's product)"

func (a *app) productCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(
		a.productInfoCommand(),
		a.productCreateCommand(),
		a.productDeleteCommand(),
	)
	return cmd
}

func (a *app) productInfoCommand() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about a product",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			product, err := a.resolve(cmd.Context(), entity.TypeProduct, ref)
			if err != nil {
				return err
			}
			return a.showInfo(cmd.Context(), product, false)
		},
	}
	cmd.Flags().StringVarP(&ref, "product", "p", "", productFlagUsage)
	return cmd
}

func (a *app) productCreateCommand() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product owned by the current account",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlag("name", name); err != nil {
				return err
			}
			product, err := a.client.CreateProduct(cmd.Context(), name, description)
			if err != nil {
				return err
			}
			return a.formatter.Result(a.out, entityTree(product),
				fmt.Sprintf("%s is created successfully.", label(entity.TypeProduct, name, product)))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "product name")
	cmd.Flags().StringVarP(&description, "descr", "s", "", "product description")
	return cmd
}

func (a *app) productDeleteCommand() *cobra.Command {
	var (
		ref       string
		force     bool
		confirmed bool
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a product",
		Long: `Delete a product.

A product that still has device groups is only deleted with --force, which
unassigns their devices and deletes the groups first.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			product, err := a.resolve(ctx, entity.TypeProduct, ref)
			if err != nil {
				return err
			}
			name := label(entity.TypeProduct, ref, product)

			ok, err := a.confirm(cmd, confirmed, name+" will be deleted.")
			if err != nil {
				return err
			}
			if !ok {
				return a.canceled()
			}

			if err := a.client.DeleteProduct(ctx, product.ID, force); err != nil {
				if errors.Is(err, platform.ErrConflict) {
					return fmt.Errorf("%s has Device Groups, use --force to delete them too: %w", name, err)
				}
				return err
			}
			return a.formatter.Message(a.out, name+" is deleted successfully.")
		},
	}
	cmd.Flags().StringVarP(&ref, "product", "p", "", productFlagUsage)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete the product's device groups too")
	cmd.Flags().BoolVarP(&confirmed, "confirmed", "q", false, "do not ask for confirmation")
	return cmd
}
