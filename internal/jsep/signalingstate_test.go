package jsep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckNextLegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		cur  State
		op   StateChangeOp
		sdp  SDPType
		next State
	}{
		{"stable setlocal offer", StateStable, OpSetLocal, SDPTypeOffer, StateHaveLocalOffer},
		{"stable setremote offer", StateStable, OpSetRemote, SDPTypeOffer, StateHaveRemoteOffer},
		{"local-offer setremote answer", StateHaveLocalOffer, OpSetRemote, SDPTypeAnswer, StateStable},
		{"local-offer setremote pranswer", StateHaveLocalOffer, OpSetRemote, SDPTypePranswer, StateHaveRemotePranswer},
		{"remote-pranswer setremote answer", StateHaveRemotePranswer, OpSetRemote, SDPTypeAnswer, StateStable},
		{"remote-offer setlocal answer", StateHaveRemoteOffer, OpSetLocal, SDPTypeAnswer, StateStable},
		{"remote-offer setlocal pranswer", StateHaveRemoteOffer, OpSetLocal, SDPTypePranswer, StateHaveLocalPranswer},
		{"local-pranswer setlocal answer", StateHaveLocalPranswer, OpSetLocal, SDPTypeAnswer, StateStable},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CheckNext(c.cur, c.next, c.op, c.sdp)
			require.NoError(t, err)
			require.Equal(t, c.next, got)
		})
	}
}

func TestCheckNextIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		cur  State
		op   StateChangeOp
		sdp  SDPType
		next State
	}{
		{"stable setlocal answer", StateStable, OpSetLocal, SDPTypeAnswer, StateStable},
		{"rollback from stable", StateStable, OpSetLocal, SDPTypeRollback, StateStable},
		{"local-offer setlocal offer", StateHaveLocalOffer, OpSetLocal, SDPTypeOffer, StateHaveLocalOffer},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := CheckNext(c.cur, c.next, c.op, c.sdp)
			require.Error(t, err)
		})
	}
}
