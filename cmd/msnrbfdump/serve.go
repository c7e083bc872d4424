// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saferwall/msnrbf"
	"github.com/saferwall/msnrbf/remoting"
)

var serveAddr string

// echoHandler is a demo application dispatcher: spec.md section 6 only
// defines the dispatch contract, not an application behind it, so serve
// stands up something end-to-end testable by reflecting the first call
// argument back as the method's return value.
func echoHandler(typeName, methodName string, args []interface{}) (interface{}, *msnrbf.ClassInstance, error) {
	if len(args) == 0 {
		return nil, nil, nil
	}
	return args[0], nil, nil
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo MS-NRTP server",
		Long:  "Listens for MS-NRTP connections and echoes the first call argument back as the method return",
		Run: func(cmd *cobra.Command, args []string) {
			server := remoting.NewServer(remoting.HandlerFunc(echoHandler), nil)
			fmt.Printf("msnrbfdump: serving on %s\n", serveAddr)
			if err := server.ListenAndServe(serveAddr); err != nil {
				fmt.Println(err)
			}
		},
	}
	cmd.Flags().StringVarP(&serveAddr, "addr", "a", remoting.DefaultAddr, "Address to listen on")
	return cmd
}
