// File: cmd/version.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"promptpack/pkg/version"
)

var flagVersionShort bool

// versionCmd prints the build metadata stamped into the binary.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the promptpack version",
	Run: func(cmd *cobra.Command, args []string) {
		if flagVersionShort {
			fmt.Println(version.Get().Version)
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&flagVersionShort, "short", "s", false, "print the version number only")
	RootCmd.AddCommand(versionCmd)
}
