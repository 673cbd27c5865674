// Package dtlsclient drives the DTLS 1.2 client handshake over a mux
// endpoint, establishing the encrypted channel the SCTP association rides
// on. There is no SRTP key extraction here: this client never negotiates
// media, only a data channel.
package dtlsclient

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/pion/dtls/v2"
	"github.com/pion/logging"
	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// Config collects the arguments to Handshake.
type Config struct {
	Certificate        *Certificate
	ReplayWindow       int
	LoggerFactory      logging.LoggerFactory
	InsecureSkipVerify bool
}

// Handshake performs the client side of a DTLS 1.2 handshake over conn
// (normally a mux.Endpoint matching MatchDTLS) and returns the resulting
// record-layer net.Conn.
func Handshake(conn net.Conn, cfg Config) (*dtls.Conn, error) {
	if cfg.Certificate == nil {
		return nil, &rtcerr.ConfigurationError{Err: fmt.Errorf("dtlsclient: no certificate configured")}
	}

	dtlsCfg := &dtls.Config{
		Certificates: []tls.Certificate{
			{
				Certificate: [][]byte{cfg.Certificate.Raw},
				PrivateKey:  cfg.Certificate.PrivateKey,
			},
		},
		LoggerFactory:      cfg.LoggerFactory,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.ReplayWindow > 0 {
		dtlsCfg.ReplayProtectionWindow = cfg.ReplayWindow
	}

	dtlsConn, err := dtls.Client(conn, dtlsCfg)
	if err != nil {
		return nil, &rtcerr.ProtocolError{Err: fmt.Errorf("dtlsclient: handshake failed: %w", err)}
	}

	return dtlsConn, nil
}
