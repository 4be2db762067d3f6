package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// policyCmd represents the policy command
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the effective change policy as JSON",
	Long: `The policy command assembles a controller module from the resolved
configuration and prints the policy it would enforce, without running a
change conversation.`,
	Run: func(cmd *cobra.Command, args []string) {
		mod, closer, err := buildModule()
		if err != nil {
			log.WithError(err).Error("error building controller module")
			os.Exit(1)
		}

		report := mod.PolicyReport()
		closer()

		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.WithError(err).Error("error encoding policy report")
			os.Exit(1)
		}

		fmt.Println(string(encoded))
	},
}

func init() {
	RootCmd.AddCommand(policyCmd)
}
