package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:5007"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "shreesteel",
	Short: "Shree Steel CLI - Estimate grill quotes and manage leads",
	Long: `Shree Steel CLI provides command-line access to the fabrication backend.
Compute grill estimates locally or work with leads through the admin API.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Admin token (defaults to SHREESTEEL_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	// Add command groups
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(leadsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
