package cli

import (
	"testing"

	"github.com/example/crm/internal/ports/primary"
)

func clientFiltersByName(search string) primary.ClientFilters {
	return primary.ClientFilters{Search: search}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    primary.ProposalItemInput
		wantErr bool
	}{
		{
			name: "simple",
			in:   "Design:1:2500",
			want: primary.ProposalItemInput{Description: "Design", Quantity: 1, UnitPrice: 2500},
		},
		{
			name: "description with colon",
			in:   "Hosting: monthly:12:49.9",
			want: primary.ProposalItemInput{Description: "Hosting: monthly", Quantity: 12, UnitPrice: 49.9},
		},
		{
			name:    "missing price",
			in:      "Design:1",
			wantErr: true,
		},
		{
			name:    "bad quantity",
			in:      "Design:one:10",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseItem(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseItem(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
