// Package e2etest boots the web server in-process and drives it over HTTP.
package e2etest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
)

// LogAddrKey is the key used to log the address the server is listening on.
const LogAddrKey = "addr"

type Server struct {
	url        string
	client     *Client
	cancel     context.CancelCauseFunc
	serverDone chan struct{}
}

// StartServer starts the server with run, waits for it to be ready and shuts it down when the test ends.
//
// logSink receives the server logs; you usually want testhelpers.NewWriter. lookupEnv has the signature of
// [os.LookupEnv]. run must log the address it listens on under LogAddrKey.
func StartServer(
	t *testing.T,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run func(context.Context, *slog.Logger, func(string) (string, bool)) error,
) (*Server, error) {
	ctx, cancel := context.WithCancelCause(t.Context())
	serverDone := make(chan struct{})
	server := &Server{url: "", client: nil, cancel: cancel, serverDone: serverDone}
	t.Cleanup(server.Shutdown)

	// The port is allocated dynamically, so it is picked from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				select {
				case addrCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	go func() {
		defer close(serverDone)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	var addr string
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(context.Cause(ctx), "server stopped before listening")
	case addr = <-addrCh:
	}

	server.url = "http://" + addr
	server.client = NewClient(server.url)
	if err := server.client.WaitForReady(ctx, "/api/healthy", 5*time.Second); err != nil { //nolint:mnd // startup.
		return nil, errors.Wrap(err, "wait for ready")
	}
	return server, nil
}

func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// Shutdown stops the server and waits for it to exit.
func (s *Server) Shutdown() {
	s.cancel(nil)
	<-s.serverDone
}
