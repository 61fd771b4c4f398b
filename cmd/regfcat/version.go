package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print regfcat's version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("regfcat " + rootCmd.Version)
		},
	})
}
