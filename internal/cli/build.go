package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/output"
)

func (a *app) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Manage builds",
	}
	cmd.AddCommand(a.buildDeployCommand())
	return cmd
}

func (a *app) buildDeployCommand() *cobra.Command {
	var groupRef, sha, description string
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a new build to a device group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			group, err := a.resolve(ctx, entity.TypeDeviceGroup, groupRef)
			if err != nil {
				return err
			}
			build, err := a.client.Deploy(ctx, group.ID, sha, description)
			if err != nil {
				return err
			}

			tree := output.NewObject().Set("Build", buildTree(build))
			return a.formatter.Result(a.out, tree, fmt.Sprintf("Build %q is deployed successfully to %s.",
				build.ID, label(entity.TypeDeviceGroup, groupRef, group)))
		},
	}
	cmd.Flags().StringVarP(&groupRef, "dg", "g", "", groupFlagUsage)
	cmd.Flags().StringVar(&sha, "sha", "", "source revision of the build")
	cmd.Flags().StringVarP(&description, "descr", "s", "", "build description")
	return cmd
}

func buildTree(b *entity.Build) *output.Object {
	obj := output.NewObject().Set(entity.AttrID, b.ID)
	if b.SHA != "" {
		obj.Set("sha", b.SHA)
	}
	if b.Description != "" {
		obj.Set("description", b.Description)
	}
	return obj.Set("created_at", b.CreatedAt.UTC().Format(time.RFC3339))
}
