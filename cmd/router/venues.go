package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"venueRouter/internal/venue"
)

func runVenues(cmd *cobra.Command, _ []string) error {
	onlySupported, _ := cmd.Flags().GetBool("supported")
	registry := venue.NewRegistry(nil)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVENUE\tPROGRAM\tARB DEX")
	for _, id := range venue.All() {
		v, err := registry.Resolve(id)
		if err != nil {
			if !onlySupported {
				fmt.Fprintf(w, "%d\t%s\tunsupported\t-\n", uint8(id), id)
			}
			continue
		}
		dex := "-"
		if d, err := venue.DexFor(id); err == nil {
			dex = d.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", uint8(id), id, v.Program, dex)
	}
	return w.Flush()
}
