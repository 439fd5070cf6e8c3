package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "keydoor",
		Short:        "keydoor runs scripted, random and language-model agents through a key and door grid world.",
		SilenceUsage: true,
	}

	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(newRunCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
