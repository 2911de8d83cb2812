package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/ports/primary"
)

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks of the current company",
	}

	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskCompleteCmd())
	cmd.AddCommand(taskOverdueCmd())
	cmd.AddCommand(taskDeleteCmd())

	return cmd
}

func taskListCmd() *cobra.Command {
	var filters primary.TaskFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filters.Priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&filters.AssignedTo, "assignee", "", "Filter by assigned user ID")
	cmd.Flags().StringVar(&filters.ClientID, "client", "", "Filter by client ID")
	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Task title")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().String("status", "", "todo, in_progress, review or done")
	cmd.Flags().String("priority", "", "low, medium, high or urgent")
	cmd.Flags().String("assignee", "", "Assigned user ID")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().String("client", "", "Related client ID")
	cmd.Flags().String("proposal", "", "Related proposal ID")
}

func taskCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Long: `Create a task in the current company.

Examples:
  crm task create --title "Send contract" --priority high --due 2024-03-15
  crm task create --title "Follow up" --client 1f0c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			get := func(name string) string {
				v, _ := cmd.Flags().GetString(name)
				return v
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).Create(cmd.Context(), primary.CreateTaskRequest{
				Title:       get("title"),
				Description: get("description"),
				Status:      get("status"),
				Priority:    get("priority"),
				AssignedTo:  get("assignee"),
				DueDate:     get("due"),
				ClientID:    get("client"),
				ProposalID:  get("proposal"),
			})
			return err
		},
	}

	addTaskFlags(cmd)
	cmd.MarkFlagRequired("title")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [task-id]",
		Short: "Update a task",
		Long: `Update a task. Only the flags you pass are changed; pass an empty
value to clear an optional field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).Update(cmd.Context(), primary.UpdateTaskRequest{
				TaskID:      args[0],
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
				Status:      changedString(cmd, "status"),
				Priority:    changedString(cmd, "priority"),
				AssignedTo:  changedString(cmd, "assignee"),
				DueDate:     changedString(cmd, "due"),
				ClientID:    changedString(cmd, "client"),
				ProposalID:  changedString(cmd, "proposal"),
			})
			return err
		},
	}

	addTaskFlags(cmd)
	return cmd
}

func taskCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [task-id]",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).Complete(cmd.Context(), args[0])
			return err
		},
	}
}

func taskOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open tasks due before today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.TaskAdapter(cmd.OutOrStdout()).Overdue(cmd.Context(), time.Now())
			return err
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.TaskAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0])
		},
	}
}
