package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
)

const groupFlagUsage = "device group identifier: id, name or {owner}{product}{name} (default: the project's device group)"

// defaultGroupType is the type of device groups created without --dg-type.
const defaultGroupType = "development"

func (a *app) deviceGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dg",
		Aliases: []string{"devicegroup"},
		Short:   "Manage device groups",
	}
	cmd.AddCommand(
		a.deviceGroupInfoCommand(),
		a.deviceGroupCreateCommand(),
	)
	return cmd
}

func (a *app) deviceGroupInfoCommand() *cobra.Command {
	var (
		ref  string
		full bool
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about a device group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.resolve(cmd.Context(), entity.TypeDeviceGroup, ref)
			if err != nil {
				return err
			}
			return a.showInfo(cmd.Context(), group, full)
		},
	}
	cmd.Flags().StringVarP(&ref, "dg", "g", "", groupFlagUsage)
	cmd.Flags().BoolVarP(&full, "full", "u", false, "include the current deployment and the assigned devices")
	return cmd
}

func (a *app) deviceGroupCreateCommand() *cobra.Command {
	var name, productRef, groupType, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a device group in a product",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := requireFlag("name", name); err != nil {
				return err
			}
			product, err := a.resolve(ctx, entity.TypeProduct, productRef)
			if err != nil {
				return err
			}

			group, err := a.client.CreateDeviceGroup(ctx, product.ID, name, groupType, description)
			if err != nil {
				return err
			}
			return a.formatter.Result(a.out, entityTree(group),
				fmt.Sprintf("%s is created successfully.", label(entity.TypeDeviceGroup, name, group)))
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "device group name")
	cmd.Flags().StringVarP(&productRef, "product", "p", "", "product identifier (default: the project's product)")
	cmd.Flags().StringVar(&groupType, "dg-type", defaultGroupType, "development, pre-factory, pre-production, factory or production")
	cmd.Flags().StringVarP(&description, "descr", "s", "", "device group description")
	return cmd
}
