package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anshupriya0510/EchoSkill-project/cmd/configure/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "echoskill-configure",
		Short: "Configuration tool for the EchoSkill API",
		Long:  "CLI tool for validating deployment configuration and probing the identity provider",
	}

	rootCmd.AddCommand(commands.NewCheckCmd())
	rootCmd.AddCommand(commands.NewPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
