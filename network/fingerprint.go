package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// fingerprintH2Client speaks HTTP/2 over a TLS connection that presents a Chrome ClientHello.
var fingerprintH2Client = &http.Client{
	Timeout: time.Minute,
	Transport: &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialFingerprinted(ctx, network, addr, nil)
		},
	},
}

// fingerprintH1Client is the HTTP/1.1 fallback for servers that refuse h2.
var fingerprintH1Client = &http.Client{
	Timeout: time.Minute,
	Transport: &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialFingerprinted(ctx, network, addr, []string{"http/1.1"})
		},
	},
}

// dialFingerprinted opens a TLS connection mimicking Chrome 120.
// A nil protos keeps the fingerprint's own ALPN list, which advertises h2 first.
func dialFingerprinted(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
