// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/dmixpbx"
	"github.com/ik5/dmixpbx/dmix"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input and bus formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "inputs:", strings.Join(dmixpbx.NewRegistry().Formats(), " "))

		bus := make([]string, 0, 3)
		for _, f := range []dmix.Format{dmix.S16, dmix.S32, dmix.S24_3LE} {
			bus = append(bus, f.String())
		}
		fmt.Fprintln(out, "bus:", strings.Join(bus, " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
