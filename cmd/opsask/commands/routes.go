package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moolen/opsask/internal/routing"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table in evaluation order",
	Run: func(cmd *cobra.Command, args []string) {
		for i, route := range routing.NewTable().Routes() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %-18s %s/%s\n   %s\n",
				i+1, route.ID, route.Backend, route.Tool, route.Form)
		}
	},
}
