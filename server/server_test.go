package server

import (
	"context"
	"net"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lifepilot/lifepilot/internal/profile"
)

func newBareServer(p *profile.Profile) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &Server{Profile: p, echoServer: e}
}

func TestStart_ReturnsBindError(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()
	port := occupied.Addr().(*net.TCPAddr).Port

	s := newBareServer(&profile.Profile{Addr: "127.0.0.1", Port: port})
	err = s.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "listen")
}

func TestStart_BindsBeforeReturning(t *testing.T) {
	s := newBareServer(&profile.Profile{Addr: "127.0.0.1", Port: 0})
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.echoServer.Close() })

	require.NotNil(t, s.echoServer.Listener)
	require.NotZero(t, s.echoServer.Listener.Addr().(*net.TCPAddr).Port)
}
