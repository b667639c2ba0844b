package cmd

import (
	"fmt"

	cobra "github.com/spf13/cobra"

	api "github.com/modforge/uprez/internal/api"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [text]",
	Short: "Send a one-shot completion request through OpenRouter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, _ := cmd.Flags().GetString("model")
		stream, _ := cmd.Flags().GetBool("stream")

		client, err := api.NewCompletionClient(cfg.API.OpenRouter)
		if err != nil {
			return err
		}

		text, cost, err := client.Complete(cmd.Context(), args[0], model, stream)
		if err != nil {
			return err
		}
		fmt.Println(text)
		if cost != "" {
			fmt.Printf("cost: %s\n", cost)
		}
		return nil
	},
}

func init() {
	promptCmd.Flags().String("model", "", "model identifier (default from config)")
	promptCmd.Flags().Bool("stream", false, "stream the completion")
	rootCmd.AddCommand(promptCmd)
}
