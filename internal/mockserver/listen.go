// ABOUTME: Runs the mock backend on a loopback listener for in-process mock mode
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Running is a mock backend bound to a local port.
type Running struct {
	*Server
	URL  string
	http *http.Server
}

// Start serves a new mock backend on addr, or an ephemeral loopback port when addr is empty.
func Start(addr string, opts Options) (*Running, error) {
	srv, err := New(opts)
	if err != nil {
		return nil, err
	}
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	hs := &http.Server{Handler: srv, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Error("mock backend stopped", zap.Error(err))
		}
	}()
	return &Running{Server: srv, URL: "http://" + ln.Addr().String(), http: hs}, nil
}

// Stop shuts the listener down, waiting for in-flight requests until ctx ends.
func (r *Running) Stop(ctx context.Context) error {
	return r.http.Shutdown(ctx)
}
