package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	pwquality "github.com/debarshiray/libpwquality"
	"github.com/debarshiray/libpwquality/terminal"
)

// changeCmd represents the change command
var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "Run an interactive password change conversation",
	Long: `The change command runs a password change conversation on the current
terminal. Candidates are scored by the configured external checker and a
rejected candidate consumes one of the configured attempts.`,
	Run: func(cmd *cobra.Command, args []string) {
		retry, err := cmd.Flags().GetInt("retry")
		if err != nil {
			log.WithError(err).Error("error getting retry flag")
			os.Exit(1)
		}

		username, err := cmd.Flags().GetString("user")
		if err != nil {
			log.WithError(err).Error("error getting user flag")
			os.Exit(1)
		}

		service, err := cmd.Flags().GetString("service")
		if err != nil {
			log.WithError(err).Error("error getting service flag")
			os.Exit(1)
		}

		label, err := cmd.Flags().GetString("type")
		if err != nil {
			log.WithError(err).Error("error getting type flag")
			os.Exit(1)
		}

		skipCurrent, err := cmd.Flags().GetBool("no-current")
		if err != nil {
			log.WithError(err).Error("error getting no-current flag")
			os.Exit(1)
		}

		options, err := cmd.Flags().GetStringArray("set")
		if err != nil {
			log.WithError(err).Error("error getting set flag")
			os.Exit(1)
		}

		if username == "" {
			current, err := user.Current()
			if err != nil {
				log.WithError(err).Error("error resolving current user")
				os.Exit(1)
			}
			username = current.Username
		}

		mod, closer, err := buildModule()
		if err != nil {
			log.WithError(err).Error("error building controller module")
			os.Exit(1)
		}

		ctx := pwquality.WithService(pwquality.WithUser(context.Background(), username), service)
		sess := terminal.NewSession()

		if !skipCurrent {
			if err := sess.AskOldAuthTok(ctx); err != nil {
				log.WithError(err).Error("error reading current password")
				closer()
				os.Exit(1)
			}
		}

		moduleArgs := make([]string, 0, len(options)+2)
		if cmd.Flags().Changed("retry") {
			moduleArgs = append(moduleArgs, fmt.Sprintf("retry=%d", retry))
		}
		if label != "" {
			moduleArgs = append(moduleArgs, "type="+label)
		}
		moduleArgs = append(moduleArgs, options...)

		changeErr := mod.ChangeAuthTok(ctx, sess, pwquality.FlagPrelimCheck, moduleArgs)
		if changeErr == nil {
			changeErr = mod.ChangeAuthTok(ctx, sess, pwquality.FlagUpdateAuthTok, moduleArgs)
		}
		closer()

		if changeErr != nil {
			if errors.Is(changeErr, pwquality.ErrAborted) {
				log.Error("password change aborted")
			} else {
				log.WithError(changeErr).Error("password change failed")
			}
			os.Exit(int(pwquality.StatusOf(changeErr)))
		}

		fmt.Println("Password accepted.")
	},
}

func init() {
	RootCmd.AddCommand(changeCmd)

	changeCmd.Flags().IntP(
		"retry", "r", 1,
		"Attempts before the change fails",
	)
	changeCmd.Flags().StringP(
		"user", "u", "",
		"Account the change is recorded for (default: current user)",
	)
	changeCmd.Flags().StringP(
		"service", "s", "pwqualityctl",
		"Service name recorded for the conversation",
	)
	changeCmd.Flags().StringP(
		"type", "t", "",
		"Token label interpolated into the prompts",
	)
	changeCmd.Flags().Bool(
		"no-current", false,
		"Skip the current password prompt",
	)
	changeCmd.Flags().StringArray(
		"set", nil,
		"Checker option as <option> or <option>=<value> (repeatable)",
	)
}
