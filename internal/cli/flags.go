package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/crm/internal/ports/primary"
)

// changedString returns a pointer to the flag value when the flag was set
// on the command line, so updates only touch what the user passed.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

// parseItem parses "description:quantity:unit_price". The description may
// itself contain colons.
func parseItem(s string) (primary.ProposalItemInput, error) {
	priceAt := strings.LastIndex(s, ":")
	if priceAt < 0 {
		return primary.ProposalItemInput{}, fmt.Errorf("invalid item %q: want description:quantity:unit_price", s)
	}
	qtyAt := strings.LastIndex(s[:priceAt], ":")
	if qtyAt < 0 {
		return primary.ProposalItemInput{}, fmt.Errorf("invalid item %q: want description:quantity:unit_price", s)
	}

	quantity, err := strconv.ParseFloat(strings.TrimSpace(s[qtyAt+1:priceAt]), 64)
	if err != nil {
		return primary.ProposalItemInput{}, fmt.Errorf("invalid quantity in item %q: %w", s, err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(s[priceAt+1:]), 64)
	if err != nil {
		return primary.ProposalItemInput{}, fmt.Errorf("invalid unit price in item %q: %w", s, err)
	}
	return primary.ProposalItemInput{
		Description: strings.TrimSpace(s[:qtyAt]),
		Quantity:    quantity,
		UnitPrice:   price,
	}, nil
}

func parseItems(raw []string) ([]primary.ProposalItemInput, error) {
	items := make([]primary.ProposalItemInput, 0, len(raw))
	for _, s := range raw {
		item, err := parseItem(s)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
