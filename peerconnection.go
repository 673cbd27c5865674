// Package webrtcdc is the client-side WebRTC unreliable-datagram stack:
// it owns and sequences one ICE agent, one DTLS client, one SCTP
// association and its single data channel, mounted on one UDP socket via
// the packet mux.
package webrtcdc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/dtls/v2"
	"github.com/pion/ice/v2"
	"github.com/pion/logging"

	"github.com/unreliable-datagram/webrtcdc/internal/config"
	"github.com/unreliable-datagram/webrtcdc/internal/dtlsclient"
	"github.com/unreliable-datagram/webrtcdc/internal/iceagent"
	"github.com/unreliable-datagram/webrtcdc/internal/jsep"
	"github.com/unreliable-datagram/webrtcdc/internal/mux"
	"github.com/unreliable-datagram/webrtcdc/internal/ops"
	"github.com/unreliable-datagram/webrtcdc/internal/sctpclient"
	"github.com/unreliable-datagram/webrtcdc/internal/sdpoffer"
	"github.com/unreliable-datagram/webrtcdc/internal/signaling"
	"github.com/unreliable-datagram/webrtcdc/pkg/addrcell"
	"github.com/unreliable-datagram/webrtcdc/pkg/datachannel"
	"github.com/unreliable-datagram/webrtcdc/pkg/dcep"
	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// clientChannelSize bounds the channels exchanging application messages
// between the caller and the data-channel read/write loops.
const clientChannelSize = 8

// dataChannelMTU bounds a single read from the data channel.
const dataChannelMTU = 1500

// ConnectionState is the aggregated peer-connection state, derived from
// the underlying ICE and DTLS transport states.
type ConnectionState int

// Aggregated connection states.
const (
	ConnectionStateNew ConnectionState = iota
	ConnectionStateConnecting
	ConnectionStateConnected
	ConnectionStateDisconnected
	ConnectionStateFailed
	ConnectionStateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateNew:
		return "new"
	case ConnectionStateConnecting:
		return "connecting"
	case ConnectionStateConnected:
		return "connected"
	case ConnectionStateDisconnected:
		return "disconnected"
	case ConnectionStateFailed:
		return "failed"
	case ConnectionStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// PeerConnection owns the full client stack for one session with one
// server. Its zero value is not usable; construct with New.
type PeerConnection struct {
	cfg config.Config
	log logging.LeveledLogger
	ops *ops.Ops

	mu           sync.Mutex
	signalState  jsep.State
	localOffer   string
	remoteAnswer string

	cert        *dtlsclient.Certificate
	localCreds  iceagent.Credentials
	remoteCreds iceagent.Credentials
	remoteFP    string

	ice      *iceagent.Agent
	mx       *mux.Mux
	dtlsConn *dtls.Conn
	assoc    *sctpclient.Association
	dc       *datachannel.DataChannel

	addrCell *addrcell.Cell

	connState atomic.Value // ConnectionState

	onConnectionStateChange atomic.Value // func(ConnectionState)

	closeOnce sync.Once
}

// New constructs a PeerConnection with a fresh self-signed certificate
// and ICE agent, ready for CreateOffer.
func New(cfg config.Config) (*PeerConnection, error) {
	if cfg.LoggerFactory == nil {
		cfg.LoggerFactory = logging.NewDefaultLoggerFactory()
	}

	cert, err := dtlsclient.GenerateSelfSigned()
	if err != nil {
		return nil, &rtcerr.ConfigurationError{Err: fmt.Errorf("webrtcdc: generating certificate: %w", err)}
	}

	pc := &PeerConnection{
		cfg:         cfg,
		log:         cfg.LoggerFactory.NewLogger("peerconnection"),
		ops:         ops.New(),
		signalState: jsep.StateStable,
		cert:        cert,
		addrCell:    addrcell.New(),
	}
	pc.connState.Store(ConnectionStateNew)

	iceAgent, err := iceagent.New(iceagent.Config{
		LoggerFactory: cfg.LoggerFactory,
		OnLocalCandidate: func(candidate string) {
			pc.log.Debugf("local ICE candidate: %s", candidate)
		},
	})
	if err != nil {
		return nil, &rtcerr.ConfigurationError{Err: fmt.Errorf("webrtcdc: starting ICE agent: %w", err)}
	}
	if err := iceAgent.OnConnectionStateChange(func(state ice.ConnectionState) {
		pc.onICEStateChange(state)
	}); err != nil {
		return nil, &rtcerr.ConfigurationError{Err: fmt.Errorf("webrtcdc: registering ICE state handler: %w", err)}
	}
	pc.ice = iceAgent

	creds, err := iceAgent.LocalUserCredentials()
	if err != nil {
		return nil, &rtcerr.ConfigurationError{Err: fmt.Errorf("webrtcdc: reading local ICE credentials: %w", err)}
	}
	pc.localCreds = creds

	return pc, nil
}

// AddrCell returns the cell that resolves to the server's address once
// an ICE candidate naming it has been received.
func (pc *PeerConnection) AddrCell() *addrcell.Cell {
	return pc.addrCell
}

// OnConnectionStateChange registers a callback fired on every aggregated
// connection-state transition.
func (pc *PeerConnection) OnConnectionStateChange(f func(ConnectionState)) {
	pc.onConnectionStateChange.Store(f)
}

// ConnectionState returns the current aggregated connection state.
func (pc *PeerConnection) ConnectionState() ConnectionState {
	if s, ok := pc.connState.Load().(ConnectionState); ok {
		return s
	}
	return ConnectionStateNew
}

// CreateOffer builds the SDP offer for this peer connection's local ICE
// credentials and DTLS certificate fingerprint, and applies the JSEP
// Stable -> HaveLocalOffer transition.
func (pc *PeerConnection) CreateOffer() (string, error) {
	fingerprint, err := pc.cert.Fingerprint()
	if err != nil {
		return "", &rtcerr.ConfigurationError{Err: fmt.Errorf("webrtcdc: computing certificate fingerprint: %w", err)}
	}

	offer := sdpoffer.BuildOffer(sdpoffer.Params{
		Ufrag:       pc.localCreds.Ufrag,
		Pwd:         pc.localCreds.Pwd,
		Fingerprint: "sha-256 " + fingerprint,
	})

	pc.mu.Lock()
	defer pc.mu.Unlock()
	next, err := jsep.CheckNext(pc.signalState, jsep.StateHaveLocalOffer, jsep.OpSetLocal, jsep.SDPTypeOffer)
	if err != nil {
		return "", err
	}
	pc.signalState = next
	pc.localOffer = offer
	return offer, nil
}

// SetRemoteDescription parses the server's SDP answer, applies the JSEP
// HaveLocalOffer -> Stable transition, and stores the remote ICE/DTLS
// parameters for the subsequent handshake.
func (pc *PeerConnection) SetRemoteDescription(answerSDP string) error {
	params, err := sdpoffer.ParseAnswer(answerSDP)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	next, err := jsep.CheckNext(pc.signalState, jsep.StateStable, jsep.OpSetRemote, jsep.SDPTypeAnswer)
	if err != nil {
		return err
	}
	pc.signalState = next
	pc.remoteAnswer = answerSDP
	pc.remoteCreds = iceagent.Credentials{Ufrag: params.Ufrag, Pwd: params.Pwd}
	pc.remoteFP = params.Fingerprint
	return nil
}

// AddICECandidate feeds a remote candidate (as received from the
// signalling server) to the ICE agent and the address cell.
func (pc *PeerConnection) AddICECandidate(candidate string) error {
	if err := pc.addrCell.ReceiveCandidate(candidate); err != nil {
		pc.log.Warnf("webrtcdc: could not resolve server address from candidate: %v", err)
	}
	return pc.ice.AddRemoteCandidate(candidate)
}

// Start dials the selected ICE pair, performs the DTLS and SCTP
// handshakes and opens the data channel, returning channels the caller
// uses to exchange application byte-messages with the server.
func (pc *PeerConnection) Start(ctx context.Context) (toServer chan<- []byte, fromServer <-chan []byte, err error) {
	pc.mu.Lock()
	remoteCreds := pc.remoteCreds
	localCreds := pc.localCreds
	pc.mu.Unlock()

	pc.setConnectionState(ConnectionStateConnecting)

	conn, err := pc.ice.Dial(ctx, localCreds, remoteCreds)
	if err != nil {
		pc.setConnectionState(ConnectionStateFailed)
		return nil, nil, &rtcerr.ProtocolError{Err: fmt.Errorf("webrtcdc: ICE connectivity checks failed: %w", err)}
	}

	pc.mx = mux.NewMux(mux.Config{
		Conn:          conn,
		BufferSize:    dataChannelMTU,
		LoggerFactory: pc.cfg.LoggerFactory,
	})
	dtlsEndpoint := pc.mx.NewEndpoint(mux.MatchDTLS)

	dtlsConn, err := dtlsclient.Handshake(dtlsEndpoint, dtlsclient.Config{
		Certificate:        pc.cert,
		ReplayWindow:       pc.cfg.DTLSReplayWindow,
		LoggerFactory:      pc.cfg.LoggerFactory,
		InsecureSkipVerify: true,
	})
	if err != nil {
		pc.setConnectionState(ConnectionStateFailed)
		return nil, nil, err
	}
	pc.dtlsConn = dtlsConn

	assoc, err := sctpclient.Dial(dtlsConn, sctpclient.Config{LoggerFactory: pc.cfg.LoggerFactory})
	if err != nil {
		pc.setConnectionState(ConnectionStateFailed)
		return nil, nil, err
	}
	pc.assoc = assoc

	dc, err := datachannel.Open(assoc, datachannel.Config{
		ChannelType: dcep.ChannelTypeReliable,
		Label:       "data",
		Protocol:    "",
	})
	if err != nil {
		pc.setConnectionState(ConnectionStateFailed)
		return nil, nil, err
	}
	pc.dc = dc

	toServerCh := make(chan []byte, clientChannelSize)
	fromServerCh := make(chan []byte, clientChannelSize)

	go pc.writeLoop(toServerCh)
	go pc.readLoop(fromServerCh)

	pc.setConnectionState(ConnectionStateConnected)

	return toServerCh, fromServerCh, nil
}

func (pc *PeerConnection) readLoop(out chan<- []byte) {
	defer close(out)
	buf := make([]byte, dataChannelMTU)
	for {
		n, _, err := pc.dc.ReadDataChannel(buf)
		if err != nil {
			pc.log.Debugf("webrtcdc: data channel closed, exiting read loop: %v", err)
			return
		}
		msg := make([]byte, n)
		copy(msg, buf[:n])
		out <- msg
	}
}

func (pc *PeerConnection) writeLoop(in <-chan []byte) {
	for msg := range in {
		if _, err := pc.dc.WriteDataChannel(msg, false); err != nil {
			pc.log.Debugf("webrtcdc: data channel write failed, exiting write loop: %v", err)
			return
		}
	}
}

func (pc *PeerConnection) onICEStateChange(state ice.ConnectionState) {
	switch state {
	case ice.ConnectionStateFailed:
		pc.setConnectionState(ConnectionStateFailed)
	case ice.ConnectionStateDisconnected:
		pc.setConnectionState(ConnectionStateDisconnected)
	}
}

func (pc *PeerConnection) setConnectionState(s ConnectionState) {
	pc.connState.Store(s)
	if f, ok := pc.onConnectionStateChange.Load().(func(ConnectionState)); ok && f != nil {
		f(s)
	}
}

// Close tears down the stack top-down: data channel, then the SCTP
// association (sending SHUTDOWN), then the DTLS connection (sending
// close_notify), then the mux and ICE agent. Close is idempotent.
func (pc *PeerConnection) Close() error {
	pc.closeOnce.Do(func() {
		pc.ops.Enqueue(func() {
			if pc.dc != nil {
				_ = pc.dc.Close()
			}
			if pc.assoc != nil {
				_ = pc.assoc.Close()
			}
			if pc.dtlsConn != nil {
				_ = pc.dtlsConn.Close()
			}
			if pc.mx != nil {
				_ = pc.mx.Close()
			}
			if pc.ice != nil {
				_ = pc.ice.Close()
			}
			pc.setConnectionState(ConnectionStateClosed)
		})
		pc.ops.Done()
		pc.ops.Close()
	})
	return nil
}

// Connect is the narrow, high-level entry point applications use: it
// drives the full offer/answer handshake against serverURL over HTTP and
// returns the resolved address cell plus the application's byte-message
// channels.
func Connect(ctx context.Context, serverURL string, opts ...config.Option) (*addrcell.Cell, chan<- []byte, <-chan []byte, error) {
	pc, err := New(config.New(opts...))
	if err != nil {
		return nil, nil, nil, err
	}

	offer, err := pc.CreateOffer()
	if err != nil {
		return nil, nil, nil, err
	}

	signalClient := signaling.NewClient()
	if pc.cfg.SignallingRetryInterval > 0 {
		signalClient.RetryInterval = pc.cfg.SignallingRetryInterval
	}

	answer, err := signalClient.Connect(serverURL, offer)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := pc.SetRemoteDescription(answer.SDP); err != nil {
		return nil, nil, nil, err
	}

	if err := pc.AddICECandidate(answer.Candidate); err != nil {
		return nil, nil, nil, err
	}

	toServer, fromServer, err := pc.Start(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	return pc.addrCell, toServer, fromServer, nil
}
