// Package iceagent wraps a github.com/pion/ice/v2.Agent for the
// controlled-role, host-candidate-only, UDP4-only client this module
// implements: no TURN relay, no mDNS, no ICE restart (see Non-goals).
package iceagent

import (
	"context"
	"fmt"

	"github.com/pion/ice/v2"
	"github.com/pion/logging"
)

// Credentials are the ICE username fragment and password this client
// offers in its SDP, and which it expects the answerer to echo back.
type Credentials struct {
	Ufrag string
	Pwd   string
}

// Agent drives host-only ICE connectivity checks over UDP4 to a single
// peer, in the controlled role (the server, reached via the signalling
// HTTP endpoint, always acts as the controlling agent).
type Agent struct {
	agent *ice.Agent
	log   logging.LeveledLogger

	onLocalCandidate func(candidate string)
}

// Config collects the arguments to iceagent.New.
type Config struct {
	LoggerFactory logging.LoggerFactory
	// OnLocalCandidate is invoked, possibly many times, as the agent
	// gathers host candidates; each invocation carries one candidate's
	// SDP attribute line, ready to be sent to the signalling server.
	OnLocalCandidate func(candidate string)
}

// New constructs and starts gathering on a host-only, UDP4-only ICE agent.
func New(cfg Config) (*Agent, error) {
	iceAgent, err := ice.NewAgent(&ice.AgentConfig{
		NetworkTypes:   []ice.NetworkType{ice.NetworkTypeUDP4},
		CandidateTypes: []ice.CandidateType{ice.CandidateTypeHost},
		LoggerFactory:  cfg.LoggerFactory,
	})
	if err != nil {
		return nil, fmt.Errorf("iceagent: creating agent: %w", err)
	}

	a := &Agent{
		agent:            iceAgent,
		log:              cfg.LoggerFactory.NewLogger("ice"),
		onLocalCandidate: cfg.OnLocalCandidate,
	}

	if err := iceAgent.OnCandidate(func(c ice.Candidate) {
		if c == nil {
			return
		}
		if a.onLocalCandidate != nil {
			a.onLocalCandidate(c.Marshal())
		}
	}); err != nil {
		return nil, fmt.Errorf("iceagent: registering candidate handler: %w", err)
	}

	if err := iceAgent.GatherCandidates(); err != nil {
		return nil, fmt.Errorf("iceagent: starting candidate gathering: %w", err)
	}

	return a, nil
}

// OnConnectionStateChange registers a callback fired whenever the ICE
// connection state transitions (Checking, Connected, Failed, ...).
func (a *Agent) OnConnectionStateChange(f func(ice.ConnectionState)) error {
	return a.agent.OnConnectionStateChange(f)
}

// OnSelectedCandidatePairChange registers a callback fired whenever ICE
// selects (or reselects) the candidate pair carrying traffic.
func (a *Agent) OnSelectedCandidatePairChange(f func(local, remote ice.Candidate)) error {
	return a.agent.OnSelectedCandidatePairChange(f)
}

// AddRemoteCandidate parses and adds a candidate received from the
// signalling server.
func (a *Agent) AddRemoteCandidate(candidate string) error {
	c, err := ice.UnmarshalCandidate(candidate)
	if err != nil {
		return fmt.Errorf("iceagent: unmarshalling remote candidate: %w", err)
	}
	return a.agent.AddRemoteCandidate(c)
}

// Dial performs ICE connectivity checks as the controlled agent and
// returns the net.Conn for the selected candidate pair once connected.
func (a *Agent) Dial(ctx context.Context, localCreds, remoteCreds Credentials) (*ice.Conn, error) {
	return a.agent.Accept(ctx, remoteCreds.Ufrag, remoteCreds.Pwd)
}

// LocalUserCredentials returns this agent's own ufrag/pwd, generated
// internally by pion/ice on construction.
func (a *Agent) LocalUserCredentials() (Credentials, error) {
	ufrag, pwd, err := a.agent.GetLocalUserCredentials()
	if err != nil {
		return Credentials{}, fmt.Errorf("iceagent: reading local credentials: %w", err)
	}
	return Credentials{Ufrag: ufrag, Pwd: pwd}, nil
}

// Close tears down the ICE agent and any selected connection.
func (a *Agent) Close() error {
	return a.agent.Close()
}
