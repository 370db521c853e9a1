// Package cmd implements the command-line interface for drill-bot.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/karrtopelka/drill-bot/auth"
	"github.com/spf13/cobra"
)

// credential maps a CLI-visible name to its keyring accessors.
type credential struct {
	name   string
	prompt string
	set    func(string) error
	get    func() (string, error)
	delete func() error
}

var credentials = map[string]credential{
	"bot-token": {
		name:   "bot-token",
		prompt: "Telegram bot token",
		set:    auth.SetBotToken,
		get:    auth.GetBotToken,
		delete: auth.DeleteBotToken,
	},
	"llm-key": {
		name:   "llm-key",
		prompt: "Completion backend API key",
		set:    auth.SetLLMKey,
		get:    auth.GetLLMKey,
		delete: auth.DeleteLLMKey,
	},
}

func credentialArg(args []string) (credential, error) {
	cred, ok := credentials[args[0]]
	if !ok {
		return credential{}, fmt.Errorf("unknown credential %q", args[0])
	}
	return cred, nil
}

func completionCredentials(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, len(credentials))
	for name := range credentials {
		names = append(names, name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd serves as the parent command for managing stored credentials.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage credentials stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
}

// authSetCmd interactively stores a credential in the system keyring.
var authSetCmd = &cobra.Command{
	Use:               "set {bot-token|llm-key}",
	Short:             "Store a credential in the system keyring",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		cred, err := credentialArg(args)
		handleErr(err)

		var value string
		handleErr(survey.AskOne(
			&survey.Password{Message: cred.prompt + ":"},
			&value,
			survey.WithValidator(survey.Required),
		))

		handleErr(cred.set(strings.TrimSpace(value)))
		fmt.Printf("stored %s in the system keyring\n", cred.name)
	},
}

func init() {
	authCmd.AddCommand(authCheckCmd)
}

// authCheckCmd verifies that a credential is present without printing it.
var authCheckCmd = &cobra.Command{
	Use:               "check {bot-token|llm-key}",
	Short:             "Verify that a credential is present in the system keyring",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		cred, err := credentialArg(args)
		handleErr(err)

		value, err := cred.get()
		if err != nil || value == "" {
			handleErr(errors.New(cred.name + " is not stored"))
		}

		fmt.Printf("%s is stored\n", cred.name)
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

// authDeleteCmd removes a credential from the system keyring.
var authDeleteCmd = &cobra.Command{
	Use:               "delete {bot-token|llm-key}",
	Short:             "Remove a credential from the system keyring",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		cred, err := credentialArg(args)
		handleErr(err)

		handleErr(cred.delete())
		fmt.Printf("removed %s from the system keyring\n", cred.name)
	},
}
