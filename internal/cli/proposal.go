package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/ports/primary"
)

// ProposalCmd returns the proposal command
func ProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Manage proposals of the current company",
	}

	cmd.AddCommand(proposalListCmd())
	cmd.AddCommand(proposalShowCmd())
	cmd.AddCommand(proposalCreateCmd())
	cmd.AddCommand(proposalUpdateCmd())
	cmd.AddCommand(proposalStatusCmd())
	cmd.AddCommand(proposalExpireCmd())
	cmd.AddCommand(proposalDeleteCmd())

	return cmd
}

func proposalListCmd() *cobra.Command {
	var filters primary.ProposalFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ProposalAdapter(cmd.OutOrStdout()).List(cmd.Context(), filters)
			return err
		},
	}

	cmd.Flags().StringVar(&filters.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filters.ClientID, "client", "", "Filter by client ID")
	return cmd
}

func proposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [proposal-id]",
		Short: "Show a proposal with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ProposalAdapter(cmd.OutOrStdout()).Show(cmd.Context(), args[0])
			return err
		},
	}
}

func addProposalFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Proposal title")
	cmd.Flags().String("description", "", "Description")
	cmd.Flags().StringArray("item", nil, `Line item as "description:quantity:unit_price" (repeatable)`)
	cmd.Flags().Float64("discount", 0, "Discount subtracted from the total")
	cmd.Flags().String("valid-until", "", "Last valid day (YYYY-MM-DD)")
	cmd.Flags().String("notes", "", "Notes")
}

func proposalCreateCmd() *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a draft proposal",
		Long: `Create a draft proposal for a client of the current company.

Examples:
  crm proposal create --client 1f0c... --title "Website" \
    --item "Design:1:2500" --item "Hosting (monthly):12:50" --discount 100 --valid-until 2024-06-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetStringArray("item")
			items, err := parseItems(raw)
			if err != nil {
				return err
			}
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			discount, _ := cmd.Flags().GetFloat64("discount")
			validUntil, _ := cmd.Flags().GetString("valid-until")
			notes, _ := cmd.Flags().GetString("notes")

			_, err = c.ProposalAdapter(cmd.OutOrStdout()).Create(cmd.Context(), primary.CreateProposalRequest{
				ClientID:    clientID,
				Title:       title,
				Description: description,
				Items:       items,
				Discount:    discount,
				ValidUntil:  validUntil,
				Notes:       notes,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "Client ID")
	addProposalFlags(cmd)
	cmd.MarkFlagRequired("client")
	cmd.MarkFlagRequired("title")
	return cmd
}

func proposalUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [proposal-id]",
		Short: "Update a proposal",
		Long: `Update a proposal. Only the flags you pass are changed. Passing --item
replaces every item; totals are recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			req := primary.UpdateProposalRequest{
				ProposalID:  args[0],
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
				Discount:    changedFloat(cmd, "discount"),
				ValidUntil:  changedString(cmd, "valid-until"),
				Notes:       changedString(cmd, "notes"),
			}
			if cmd.Flags().Changed("item") {
				raw, _ := cmd.Flags().GetStringArray("item")
				items, err := parseItems(raw)
				if err != nil {
					return err
				}
				req.Items = &items
			}
			_, err = c.ProposalAdapter(cmd.OutOrStdout()).Update(cmd.Context(), req)
			return err
		},
	}

	addProposalFlags(cmd)
	return cmd
}

func proposalStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [proposal-id] [status]",
		Short: "Set proposal status (draft, sent, viewed, approved, rejected, expired)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ProposalAdapter(cmd.OutOrStdout()).SetStatus(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func proposalExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Mark open proposals past their valid-until date as expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			_, err = c.ProposalAdapter(cmd.OutOrStdout()).Expire(cmd.Context(), time.Now())
			return err
		},
	}
}

func proposalDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [proposal-id]",
		Short: "Delete a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := services(cmd)
			if err != nil {
				return err
			}
			return c.ProposalAdapter(cmd.OutOrStdout()).Delete(cmd.Context(), args[0])
		},
	}
}
