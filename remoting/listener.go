// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package remoting supplies the out-of-scope-but-necessary collaborators
// named in spec.md section 1: the TCP acceptor and fixed worker pool, the
// application dispatcher contract, the declared SYSTEMLIB classes
// required for interop, and a packet hex-dump utility. None of it touches
// the NRBF record grammar; it only supplies byte buffers in and sockets
// out, per spec.md's scope note.
package remoting

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/saferwall/msnrbf"
	"github.com/saferwall/msnrbf/log"
	"github.com/saferwall/msnrbf/nrtp"
)

// Server listens for MS-NRTP connections and dispatches each decoded
// BinaryMethodCall to a Handler, mirroring server.py's Server: a TCP
// listener, a fixed-size worker pool (server.py's
// ThreadPoolExecutor(max_workers=2)), and a per-connection handler loop.
// Workers do not share Message Contexts; the registry is read-only at
// steady state (spec.md section 5).
type Server struct {
	handler Handler
	opts    Options
	logger  *log.Helper

	listener net.Listener
	sem      chan struct{}
	wg       sync.WaitGroup
}

// NewServer returns a Server dispatching to h. opts may be nil to use
// every default.
func NewServer(h Handler, opts *Options) *Server {
	var o Options
	if opts != nil {
		o = *opts
	}
	o.fillDefaults()
	return &Server{
		handler: h,
		opts:    o,
		logger:  o.helper(),
		sem:     make(chan struct{}, o.MaxWorkers),
	}
}

// ListenAndServe binds addr (DefaultAddr if empty) and serves connections
// until the listener is closed or the caller stops accepting. It sets
// SO_REUSEADDR on the raw listener fd so a restarted server can rebind
// immediately.
func (s *Server) ListenAndServe(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Infof("listening on %s", addr)
	return s.serve()
}

// Serve runs the accept loop against an already-bound listener, letting
// callers (such as tests) supply their own net.Listener.
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	return s.serve()
}

func (s *Server) serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		s.wg.Add(1)
		s.sem <- struct{}{}
		go func() {
			defer s.wg.Done()
			defer func() { <-s.sem }()
			s.handleConnection(conn)
		}()
	}
}

// Close stops accepting new connections and waits for in-flight workers
// to finish their current connection.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

// handleConnection reads exactly one request frame, dispatches it, and
// writes exactly one reply frame, then closes the connection — requests
// and replies are strictly serial per connection (spec.md section 5).
// Partially decoded messages are discarded; cancellation at this level
// is simply a connection close, matching server.py's client_future.
func (s *Server) handleConnection(conn net.Conn) {
	addr := conn.RemoteAddr()
	s.logger.Debugf("connection from %s", addr)
	defer func() {
		s.logger.Debugf("closing connection from %s", addr)
		conn.Close()
	}()

	data, err := readFrame(conn)
	if err != nil {
		s.logger.Warnf("reading frame from %s: %v", addr, err)
		return
	}

	reply, err := s.handleRequest(data)
	if err != nil {
		s.logger.Warnf("handling request from %s: %v", addr, err)
		reply, err = s.errorReply(err)
		if err != nil {
			s.logger.Errorf("building error reply for %s: %v", addr, err)
			return
		}
	}
	if _, err := conn.Write(reply); err != nil {
		s.logger.Warnf("writing reply to %s: %v", addr, err)
	}
}

// readFrame pulls one complete SingleMessage off conn, growing its
// buffer by nrtp.BytesNeeded until the frame is whole.
func readFrame(conn net.Conn) ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		need := nrtp.BytesNeeded(buf)
		if need == 0 && len(buf) > 0 {
			return buf, nil
		}
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			return nil, err
		}
	}
}

// handleRequest unpacks the NRTP frame, decodes the NRBF payload, and
// dispatches the call to s.handler, building a BinaryMethodReturn reply.
func (s *Server) handleRequest(data []byte) ([]byte, error) {
	frame, err := nrtp.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpacking frame: %w", err)
	}

	msg, err := msnrbf.DecodeMessage(frame.Payload, s.opts.Registry, &msnrbf.DecodeOptions{
		MaxArrayLength:    s.opts.MaxArrayLength,
		MaxReferenceables: s.opts.MaxReferenceables,
	})
	if err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	if msg.Call == nil {
		return nil, fmt.Errorf("message carries no method call")
	}

	value, exception, err := s.handler.Dispatch(msg.Call.TypeName, msg.Call.MethodName, msg.CallArray)
	if err != nil {
		return nil, err
	}

	reply := msnrbf.BuildMethodReturn(s.opts.Registry, value, exception)
	return packReply(reply)
}

// errorReply builds the reply frame server.py's error_reply sends when
// dispatch fails: a method return carrying a RemotingException whose
// Message is the failing error's text.
func (s *Server) errorReply(cause error) ([]byte, error) {
	reply := msnrbf.BuildMethodReturn(s.opts.Registry, nil, NewExceptionReply(cause.Error()))
	return packReply(reply)
}

func packReply(reply *msnrbf.RemotingMessage) ([]byte, error) {
	payload, err := reply.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding reply: %w", err)
	}
	frame := nrtp.SingleMessage{
		MajorVersion:  1,
		OperationType: nrtp.OpReply,
		Payload:       payload,
	}
	return frame.Pack()
}
