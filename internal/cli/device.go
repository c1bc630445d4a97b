package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/platform"
)

const deviceFlagUsage = "device identifier: id, name, MAC address, agent id or {owner}{product}{name}"

func (a *app) deviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage devices",
	}
	cmd.AddCommand(
		a.deviceInfoCommand(),
		a.deviceRestartCommand(),
		a.deviceRemoveCommand(),
		a.deviceAssignCommand(),
		a.deviceUnassignCommand(),
		a.deviceUpdateCommand(),
	)
	return cmd
}

func (a *app) deviceInfoCommand() *cobra.Command {
	var (
		ref  string
		full bool
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about a device",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			device, err := a.resolve(cmd.Context(), entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			return a.showInfo(cmd.Context(), device, full)
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	cmd.Flags().BoolVarP(&full, "full", "u", false, "include the device group's current deployment")
	return cmd
}

func (a *app) deviceRestartCommand() *cobra.Command {
	var (
		ref         string
		conditional bool
	)
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart a device",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			device, err := a.resolve(ctx, entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			if err := a.client.RestartDevice(ctx, device.ID, conditional); err != nil {
				return err
			}

			msg := "%s is restarted successfully."
			if conditional {
				msg = "%s is conditionally restarted successfully."
			}
			return a.formatter.Message(a.out, fmt.Sprintf(msg, label(entity.TypeDevice, ref, device)))
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	cmd.Flags().BoolVarP(&conditional, "conditional", "c", false, "restart only when the device application allows it")
	return cmd
}

func (a *app) deviceRemoveCommand() *cobra.Command {
	var (
		ref       string
		force     bool
		confirmed bool
	)
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a device from the account",
		Long: `Remove a device from the account.

A device assigned to a device group is only removed with --force, which
unassigns it first.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			device, err := a.resolve(ctx, entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			name := label(entity.TypeDevice, ref, device)

			ok, err := a.confirm(cmd, confirmed, name+" will be removed.")
			if err != nil {
				return err
			}
			if !ok {
				return a.canceled()
			}

			if err := a.client.DeleteDevice(ctx, device.ID, force); err != nil {
				if errors.Is(err, platform.ErrConflict) {
					return fmt.Errorf("%s is assigned to a Device Group, use --force to remove it: %w", name, err)
				}
				return err
			}
			return a.formatter.Message(a.out, name+" is deleted successfully.")
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	cmd.Flags().BoolVarP(&force, "force", "f", false, "unassign the device first if needed")
	cmd.Flags().BoolVarP(&confirmed, "confirmed", "q", false, "do not ask for confirmation")
	return cmd
}

func (a *app) deviceAssignCommand() *cobra.Command {
	var (
		ref       string
		groupRef  string
		confirmed bool
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a device to a device group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := requireFlag("device", ref); err != nil {
				return err
			}
			device, err := a.resolve(ctx, entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			group, err := a.resolve(ctx, entity.TypeDeviceGroup, groupRef)
			if err != nil {
				return err
			}
			deviceName := label(entity.TypeDevice, ref, device)
			groupName := label(entity.TypeDeviceGroup, groupRef, group)

			if current, ok := device.Related(entity.TypeDeviceGroup); ok && current != group.ID {
				proceed, err := a.confirm(cmd, confirmed, deviceName+" is assigned to another Device Group and will be reassigned.")
				if err != nil {
					return err
				}
				if !proceed {
					return a.canceled()
				}
			}

			if _, err := a.client.AssignDevice(ctx, device.ID, group.ID); err != nil {
				return err
			}
			return a.formatter.Message(a.out,
				fmt.Sprintf("%s is assigned successfully to %s.", deviceName, groupName))
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	cmd.Flags().StringVarP(&groupRef, "dg", "g", "", "device group identifier (default: the project's device group)")
	cmd.Flags().BoolVarP(&confirmed, "confirmed", "q", false, "do not ask before reassigning")
	return cmd
}

func (a *app) deviceUnassignCommand() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "unassign",
		Short: "Unassign a device from its device group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			device, err := a.resolve(ctx, entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			name := label(entity.TypeDevice, ref, device)

			if _, ok := device.Related(entity.TypeDeviceGroup); !ok {
				return a.formatter.Message(a.out, name+" is not assigned to any Device Group.")
			}
			if _, err := a.client.UnassignDevice(ctx, device.ID); err != nil {
				return err
			}
			return a.formatter.Message(a.out, name+" is unassigned successfully.")
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	return cmd
}

func (a *app) deviceUpdateCommand() *cobra.Command {
	var ref, name string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename a device",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			// An empty --name clears the name.
			if !cmd.Flags().Changed("name") {
				return newUsageError(errors.New("--name is required"))
			}
			device, err := a.resolve(ctx, entity.TypeDevice, ref)
			if err != nil {
				return err
			}
			if _, err := a.client.RenameDevice(ctx, device.ID, name); err != nil {
				return err
			}
			return a.formatter.Message(a.out, label(entity.TypeDevice, ref, device)+" is updated successfully.")
		},
	}
	cmd.Flags().StringVarP(&ref, "device", "d", "", deviceFlagUsage)
	cmd.Flags().StringVarP(&name, "name", "n", "", "new device name")
	return cmd
}
