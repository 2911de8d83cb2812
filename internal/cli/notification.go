package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crm/internal/ports/primary"
)

// NotificationCmd returns the notification command
func NotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notifications"},
		Short:   "Read and send notifications",
	}

	cmd.AddCommand(notificationListCmd())
	cmd.AddCommand(notificationReadCmd())
	cmd.AddCommand(notificationReadAllCmd())
	cmd.AddCommand(notificationSendCmd())

	return cmd
}

func notificationListCmd() *cobra.Command {
	var filters primary.NotificationFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.NotificationAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().BoolVarP(&filters.UnreadOnly, "unread", "u", false, "Only unread notifications")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 20, "Maximum number to show (0 for all)")
	return cmd
}

func notificationReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.NotificationAdapter(cmd.OutOrStdout()).MarkRead(cmd.Context(), args[0])
		},
	}
}

func notificationReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.NotificationAdapter(cmd.OutOrStdout()).MarkAllRead(cmd.Context())
		},
	}
}

func notificationSendCmd() *cobra.Command {
	var req primary.NotifyRequest

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a notification to a user of the current company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.NotificationAdapter(cmd.OutOrStdout()).Send(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVar(&req.UserID, "user", "", "Recipient user ID (default: yourself)")
	cmd.Flags().StringVar(&req.Type, "type", "", "info, success, warning or error")
	cmd.Flags().StringVar(&req.Title, "title", "", "Title")
	cmd.Flags().StringVar(&req.Message, "message", "", "Message")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("message")
	return cmd
}
