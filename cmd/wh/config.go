package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wordhop/wordhop/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get and set repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration (all keys, or one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	root := requireRepo()

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("ollama_url:      %s\n", cfg.OllamaURL)
			fmt.Printf("embed_model:     %s\n", cfg.EmbedModel)
			fmt.Printf("chat_url:        %s\n", cfg.ChatURL)
			fmt.Printf("chat_model:      %s\n", cfg.ChatModel)
			fmt.Printf("vocabulary_file: %s\n", cfg.VocabularyFile)
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	value, err := configValue(cfg, args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		fmt.Println(value)
	} else {
		outputJSON(map[string]string{args[0]: value})
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	root := requireRepo()
	key, value := args[0], args[1]

	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	switch key {
	case "ollama_url":
		cfg.OllamaURL = value
	case "embed_model":
		cfg.EmbedModel = value
	case "chat_url":
		cfg.ChatURL = value
	case "chat_model":
		cfg.ChatModel = value
	case "vocabulary_file":
		cfg.VocabularyFile = value
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func configValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "ollama_url":
		return cfg.OllamaURL, nil
	case "embed_model":
		return cfg.EmbedModel, nil
	case "chat_url":
		return cfg.ChatURL, nil
	case "chat_model":
		return cfg.ChatModel, nil
	case "vocabulary_file":
		return cfg.VocabularyFile, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}
