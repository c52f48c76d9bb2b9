package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	providerdrv "github.com/kompox/amlops/adapters/drivers/provider"
	"github.com/kompox/amlops/internal/logging"
	"github.com/kompox/amlops/internal/retry"
	"github.com/kompox/amlops/usecase/setup"
)

const defaultDriver = "aml"

func newCmdSetup() *cobra.Command {
	var createResourceGroup bool
	var driverName string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the workspace, compute targets and environment",
		Long: `Provision an Azure Machine Learning workspace, a GPU compute cluster and a
notebook instance when they do not exist, then create or update the
environment. Existing resources are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if missing := cfg.Missing(); len(missing) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "Please set AZURE_SUBSCRIPTION_ID and AZURE_RESOURCE_GROUP environment variables.")
				fmt.Fprintln(out, "Create a .env file or export them in your shell.")
				return nil
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			desc, err := cfg.ToDescriptors()
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "setup", cfg.Workspace.Name)
			defer func() { cleanup(err) }()

			runRepo, err := buildRunRepository(cmd)
			if err != nil {
				return err
			}
			driver, err := providerdrv.NewDriver(driverName, cfg.DriverSettings(os.Getenv))
			if err != nil {
				return err
			}

			u := &setup.UseCase{
				Repos: &setup.Repos{Run: runRepo},
				Ports: &setup.Ports{
					ResourceGroup: driver,
					Workspace:     driver,
					Compute:       driver,
					Environment:   driver,
				},
				Observer: setup.WriterObserver{W: cmd.OutOrStdout()},
				Retry: []retry.Option{
					retry.WithMaxRetries(cfg.Timeouts.RetryMaxAttempts),
					retry.WithInitialDelay(cfg.Timeouts.RetryInitialDelay),
				},
			}
			out, err := u.Setup(ctx, &setup.SetupInput{
				Target:              cfg.Target(),
				CreateResourceGroup: createResourceGroup || cfg.Azure.CreateResourceGroup,
				Workspace:           desc.Workspace,
				ComputeCluster:      desc.ComputeCluster,
				NotebookInstance:    desc.NotebookInstance,
				Environment:         desc.Environment,
			})
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Info(ctx, "setup finished", "run", out.RunID, "status", out.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&createResourceGroup, "create-resource-group", false, "Create the resource group when it does not exist")
	cmd.Flags().StringVar(&driverName, "driver", defaultDriver, "Provider driver")
	_ = cmd.Flags().MarkHidden("driver")
	return cmd
}
