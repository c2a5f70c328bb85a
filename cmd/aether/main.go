package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "aether",
		Short: "Adversarial stress-testing of reports through multi-agent debate",
		Long:  "Breaks a report into debatable factors, runs structured pro/con debates over each, has the panel peer-review the anonymized transcripts, and forces a binary verdict per factor from a judge model.",
	}

	root.PersistentFlags().String("env-file", ".env", "Path to .env file")
	root.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(newAnalyzeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
