package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crypto-pulse",
	Short: "A CLI for managing the Crypto Pulse services",
	Long:  `Crypto Pulse collects crypto social media and news chatter, scores it and serves aggregated sentiment.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
