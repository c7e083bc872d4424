// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/saferwall/msnrbf"
	"github.com/saferwall/msnrbf/nrtp"
	"github.com/saferwall/msnrbf/remoting"
)

var (
	rawHex   bool
	wantBody bool
	wantJSON bool
)

func prettyPrint(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func dumpFile(path string) {
	capture, err := remoting.OpenCapture(path)
	if err != nil {
		log.Printf("opening capture %s: %v", path, err)
		return
	}
	defer capture.Close()

	data := capture.Bytes()

	if rawHex {
		remoting.NewDumper().View(data)
	}

	frame, err := nrtp.Unpack(data)
	if err != nil {
		log.Printf("unpacking NRTP frame in %s: %v", path, err)
		return
	}

	msg, err := msnrbf.DecodeMessage(frame.Payload, nil, nil)
	if err != nil {
		log.Printf("decoding NRBF payload in %s: %v", path, err)
		return
	}

	if wantJSON {
		fmt.Println(prettyPrint(msg))
		return
	}

	switch {
	case msg.Call != nil:
		fmt.Printf("BinaryMethodCall: %s.%s\n", msg.Call.TypeName, msg.Call.MethodName)
	case msg.Return != nil:
		fmt.Println("BinaryMethodReturn")
	}
	if wantBody {
		fmt.Println(prettyPrint(msg.CallArray))
	}
}

func dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [files...]",
		Short: "Decode captured MS-NRTP frames",
		Long:  "Decodes one or more captured MS-NRTP frame files, hex-dumping and/or decoding them to JSON",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, path := range args {
				dumpFile(path)
			}
		},
	}
	cmd.Flags().BoolVarP(&rawHex, "hex", "", false, "Show a colorized hex+ASCII dump before decoding")
	cmd.Flags().BoolVarP(&wantBody, "body", "", false, "Print the decoded call array contents")
	cmd.Flags().BoolVarP(&wantJSON, "json", "", false, "Print the whole decoded message as JSON")
	return cmd
}
