package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/temirov/hokuspokus/internal/config"
	"github.com/temirov/hokuspokus/internal/ui"
)

const (
	configureUse              = "configure"
	configureShortDescription = "store the OpenAI API key"
	configureLongDescription  = `Prompt for an OpenAI API key and store it in ~/.hokuspokus/config.json,
readable only by you. The HOKUSPOKUS_OPENAI_KEY environment variable takes
precedence over the stored key.`
	apiKeyPrompt         = "OpenAI API key: "
	apiKeySavedMessage   = "API key saved to %s"
	apiKeyReplaceWarning = "An API key is already configured; it will be replaced."

	configUse              = "config"
	configShortDescription = "manage hokuspokus configuration"
	configInitUse          = "init"
	configInitShort        = "write a configuration file with the default settings"
	configInitLong         = `Write the default configuration to ./.hokuspokus.yaml, or with --global
to ~/.hokuspokus/config.yaml. Local settings override global ones.`
	configInitGlobalFlag        = "global"
	configInitGlobalDescription = "write the global configuration file"
	configInitForceFlag         = "force"
	configInitForceDescription  = "overwrite an existing configuration file"
	configWrittenMessage        = "Configuration written to %s"
)

var errEmptyAPIKey = errors.New("no API key entered")

func createConfigureCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   configureUse,
		Short: configureShortDescription,
		Long:  configureLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			console := ui.NewConsole(command.InOrStdin(), command.OutOrStdout(), command.ErrOrStderr())
			if _, readErr := dependencies.Credentials.Read(); readErr == nil {
				console.Warningf(apiKeyReplaceWarning)
			}
			apiKey, err := console.ReadSecret(apiKeyPrompt)
			if err != nil {
				return err
			}
			if apiKey == "" {
				return errEmptyAPIKey
			}
			if err := dependencies.Credentials.Write(apiKey); err != nil {
				return err
			}
			options.logger.Debug("api key stored")
			console.Successf(apiKeySavedMessage, dependencies.Credentials.Path())
			return nil
		},
	}
}

func createConfigCommand(dependencies Dependencies) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShort,
		Long:  configInitLong,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
			})
			if err != nil {
				return err
			}
			ui.NewConsole(command.InOrStdin(), command.OutOrStdout(), command.ErrOrStderr()).Successf(configWrittenMessage, path)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, configInitGlobalFlag, false, configInitGlobalDescription)
	initCommand.Flags().BoolVar(&force, configInitForceFlag, false, configInitForceDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
