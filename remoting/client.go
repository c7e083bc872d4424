// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package remoting

import (
	"fmt"
	"net"

	"github.com/saferwall/msnrbf"
	"github.com/saferwall/msnrbf/nrtp"
)

// Method describes one remote method this client may invoke: the target
// URI, the server type name the call's TypeName field carries, and the
// method name, mirroring msnrtp.py's RemotingMethod. spec.md describes
// only the wire grammar and the server's receive path; Method and Client
// supply the minimal call-the-server half so the server and the CLI's
// dump command can round-trip against each other without a captured pcap
// (see SPEC_FULL.md's supplemented features).
type Method struct {
	URI         string
	ServerType  string
	MethodName  string
	ContentType string
}

// NewMethod returns a Method with ContentType defaulting to
// "application/octet-stream", matching RemotingMethod.__init__.
func NewMethod(uri, serverType, methodName string) Method {
	return Method{URI: uri, ServerType: serverType, MethodName: methodName, ContentType: "application/octet-stream"}
}

// CreateRequest builds the MS-NRTP 3.1.5.1.1 request frame for invoking
// this method with args carried in a trailing call array.
func (m Method) CreateRequest(reg *msnrbf.ClassRegistry, args []interface{}) ([]byte, error) {
	body := msnrbf.BuildMethodCall(reg, m.ServerType, m.MethodName, args)
	payload, err := body.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding method call: %w", err)
	}
	frame := nrtp.SingleMessage{
		MajorVersion:  1,
		OperationType: nrtp.OpRequest,
		Payload:       payload,
		Headers: []nrtp.Header{
			nrtp.RequestUriHeader{URI: nrtp.CountedString{Value: m.URI}},
			nrtp.ContentTypeHeader{Type: nrtp.CountedString{Value: m.ContentType}},
		},
	}
	return frame.Pack()
}

// CreateResponse builds the MS-NRTP 3.1.5.1.2 reply frame carrying
// either value or exception (exactly one should be non-nil).
func (m Method) CreateResponse(reg *msnrbf.ClassRegistry, value interface{}, exception *msnrbf.ClassInstance) ([]byte, error) {
	body := msnrbf.BuildMethodReturn(reg, value, exception)
	payload, err := body.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding method return: %w", err)
	}
	frame := nrtp.SingleMessage{
		MajorVersion:  1,
		OperationType: nrtp.OpReply,
		Payload:       payload,
		Headers: []nrtp.Header{
			nrtp.RequestUriHeader{URI: nrtp.CountedString{Value: m.URI}},
			nrtp.ContentTypeHeader{Type: nrtp.CountedString{Value: m.ContentType}},
		},
	}
	return frame.Pack()
}

// Client dials a remote Server and invokes Methods against it,
// supplying the minimal request/response round trip a test or the CLI's
// dump command needs without standing up a full .NET Remoting client.
type Client struct {
	Registry *msnrbf.ClassRegistry

	// MaxArrayLength and MaxReferenceables bound the reply decode the
	// same way Options bounds the server's request decode. Zero selects
	// the msnrbf.DecodeOptions default for each.
	MaxArrayLength    int
	MaxReferenceables int
}

// Call connects to addr, sends method's request carrying args, reads
// back exactly one reply frame, and decodes it.
func (c Client) Call(addr string, method Method, args []interface{}) (*msnrbf.RemotingMessage, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	req, err := method.CreateRequest(c.Registry, args)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(req); err != nil {
		return nil, err
	}

	data, err := readFrame(conn)
	if err != nil {
		return nil, err
	}
	frame, err := nrtp.Unpack(data)
	if err != nil {
		return nil, err
	}
	return msnrbf.DecodeMessage(frame.Payload, c.Registry, &msnrbf.DecodeOptions{
		MaxArrayLength:    c.MaxArrayLength,
		MaxReferenceables: c.MaxReferenceables,
	})
}
