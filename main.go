package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/storechecker/storechecker/cmd"
)

var rootCmd = &cobra.Command{
	Use:          "storechecker",
	Short:        "Game price alert service",
	Long:         "Mails subscribers when the lowest price of a game in the shop changes",
	SilenceUsage: true,
}

func init() {
	cmd.AddGlobalFlags(rootCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.JobCmd)
	rootCmd.AddCommand(cmd.ReconcileCmd)
	rootCmd.AddCommand(cmd.PruneCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
