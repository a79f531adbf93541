package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewDeploymentCmd создаёт группу команд для управления deployments.
func NewDeploymentCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployment",
		Aliases: []string{"deploy"},
		Short:   "Manage deployments",
	}

	cmd.AddCommand(
		newDeploymentListCmd(clientFn, outputFn),
		newDeploymentCreateCmd(clientFn, outputFn),
		newDeploymentShowCmd(clientFn, outputFn),
		newDeploymentStepsCmd(clientFn, outputFn),
		newDeploymentStartCmd(clientFn, outputFn),
	)

	return cmd
}

func newDeploymentListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var runnerID string
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deployments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			deployments, err := client.ListDeployments(ListDeploymentsOpts{
				RunnerID: runnerID,
				Status:   status,
				Limit:    limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "APP", "STATUS", "ERROR", "CREATED"}
			rows := make([][]string, len(deployments))
			for i, d := range deployments {
				rows[i] = []string{d.ID, d.AppName, d.Status, d.Error, d.CreatedAt}
			}

			out.Print(headers, rows, deployments)
			return nil
		},
	}

	cmd.Flags().StringVar(&runnerID, "runner-id", "", "Filter by runner ID")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (READY, RUNNING, APPLIED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newDeploymentCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var runnerID string
	var infrastructureID string
	var steps []string

	cmd := &cobra.Command{
		Use:   "create APP_NAME",
		Short: "Create a new deployment",
		Long: `Create a new deployment with an ordered list of steps.

Each --step is NAME:TYPE:COMMAND, for example:
  bosun deployment create my-app \
    --runner-id 6f1c... \
    --step "build:command:docker build -t my-app ." \
    --step "migrate:command:./migrate up" \
    --step "restart:command:systemctl restart my-app"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateDeploymentRequest{
				RunnerID:         runnerID,
				InfrastructureID: infrastructureID,
				AppName:          args[0],
			}

			for _, s := range steps {
				parts := strings.SplitN(s, ":", 3)
				if len(parts) != 3 {
					return fmt.Errorf("invalid step format %q, expected NAME:TYPE:COMMAND", s)
				}
				req.Steps = append(req.Steps, CreateStepRequest{
					Name:    parts[0],
					Type:    parts[1],
					Command: parts[2],
				})
			}

			d, err := client.CreateDeployment(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Deployment created: %s", d.ID))
			out.Print(
				[]string{"ID", "APP", "STATUS", "CREATED"},
				[][]string{{d.ID, d.AppName, d.Status, d.CreatedAt}},
				d,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&runnerID, "runner-id", "", "Runner ID (required)")
	cmd.Flags().StringVar(&infrastructureID, "infrastructure-id", "", "Infrastructure ID")
	cmd.Flags().StringSliceVar(&steps, "step", nil, "Step as NAME:TYPE:COMMAND (repeatable, in execution order)")
	cmd.MarkFlagRequired("runner-id")
	cmd.MarkFlagRequired("step")

	return cmd
}

func newDeploymentShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show deployment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			d, err := client.GetDeployment(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "APP", "STATUS", "STARTED", "COMPLETED", "ERROR"},
				[][]string{{d.ID, d.AppName, d.Status, d.StartedAt, d.CompletedAt, d.Error}},
				d,
			)
			return nil
		},
	}
}

func newDeploymentStepsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "steps ID",
		Short: "List steps of a deployment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSteps(args[0])
			if err != nil {
				return err
			}

			headers := []string{"#", "NAME", "TYPE", "STATUS", "EXIT", "ORDER_ID", "ERROR"}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				exitCode := ""
				if s.ExitCode != nil {
					exitCode = strconv.Itoa(*s.ExitCode)
				}
				rows[i] = []string{strconv.Itoa(s.StepOrder), s.Name, s.Type, s.Status, exitCode, s.OrderID, s.Error}
			}

			out.Print(headers, rows, steps)
			return nil
		},
	}
}

func newDeploymentStartCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "start ID",
		Short: "Start a deployment run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			d, err := client.StartDeployment(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Deployment started: %s", d.ID))
			out.Print(
				[]string{"ID", "APP", "STATUS", "STARTED"},
				[][]string{{d.ID, d.AppName, d.Status, d.StartedAt}},
				d,
			)
			return nil
		},
	}
}
