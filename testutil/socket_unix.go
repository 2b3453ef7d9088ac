//go:build !windows

package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

// DummyUnixSocket answers every connection with garbage, so a driver that really dialed the
// socket fails with a protocol error instead of "connection refused".
type DummyUnixSocket struct {
	Dir      string // directory holding the socket, for drivers taking a socket directory
	Path     string
	listener net.Listener
}

// StartDummyUnixSocket listens on <tmp>/<socketName>. Unix socket paths are limited to about
// 100 bytes, so the directory comes from os.MkdirTemp rather than t.TempDir.
func StartDummyUnixSocket(t *testing.T, dirPrefix, socketName string) *DummyUnixSocket {
	t.Helper()

	dir, err := os.MkdirTemp("", dirPrefix)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, socketName)
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}

	sock := &DummyUnixSocket{Dir: dir, Path: path, listener: listener}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Write([]byte("dummy socket response\n"))
			conn.Close()
		}
	}()
	return sock
}

func (s *DummyUnixSocket) Close() {
	s.listener.Close()
}
