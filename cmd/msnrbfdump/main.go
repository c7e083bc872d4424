// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "msnrbfdump",
		Short: "A .NET Remoting (MS-NRTP/MS-NRBF) wire format inspector",
		Long:  "Decodes and hex-dumps captured MS-NRTP frames, and runs a demo MS-NRTP server, built by Saferwall",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(dumpCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
