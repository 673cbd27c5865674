// Command server is the demo echo server the client's happy-path scenario
// talks to: it accepts one SDP offer per HTTP POST, answers it with the
// full upstream pion/webrtc stack, and replies "PONG" to every data-channel
// message it receives. Only the wire-level reply shape matters here, not the server's
// internals, so this is built directly on github.com/pion/webrtc/v4 rather
// than this module's own client-side stack.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
)

var candidateLinePattern = regexp.MustCompile(`(?m)^a=(candidate:\S.*typ host\S*)\r?$`)

type sessionResponse struct {
	Answer    answerBody    `json:"answer"`
	Candidate candidateBody `json:"candidate"`
}

type answerBody struct {
	SDP string `json:"sdp"`
}

type candidateBody struct {
	Candidate string `json:"candidate"`
}

func main() {
	addr := flag.String("addr", "127.0.0.1:14191", "listen address")
	flag.Parse()

	http.HandleFunc("/rtc_session", handleSession)

	log.Printf("server: listening on http://%s/rtc_session", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}

func handleSession(w http.ResponseWriter, r *http.Request) {
	offer, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("reading offer: %v", err), http.StatusBadRequest)
		return
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		http.Error(w, fmt.Sprintf("creating peer connection: %v", err), http.StatusInternalServerError)
		return
	}

	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		log.Printf("server: ICE connection state: %s", state)
		if state == webrtc.ICEConnectionStateFailed || state == webrtc.ICEConnectionStateClosed {
			_ = pc.Close()
		}
	})

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		log.Printf("server: data channel %q opened", dc.Label())
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			log.Printf("server: received %q, echoing PONG", msg.Data)
			if err := dc.Send([]byte("PONG")); err != nil {
				log.Printf("server: echo failed: %v", err)
			}
		})
	})

	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  string(offer),
	}); err != nil {
		http.Error(w, fmt.Sprintf("setting remote description: %v", err), http.StatusBadRequest)
		return
	}

	gatherComplete := webrtc.GatheringCompletePromise(pc)

	answer, err := pc.CreateAnswer(nil)
	if err != nil {
		http.Error(w, fmt.Sprintf("creating answer: %v", err), http.StatusInternalServerError)
		return
	}
	if err := pc.SetLocalDescription(answer); err != nil {
		http.Error(w, fmt.Sprintf("setting local description: %v", err), http.StatusInternalServerError)
		return
	}

	select {
	case <-gatherComplete:
	case <-time.After(5 * time.Second):
		http.Error(w, "ICE gathering timed out", http.StatusGatewayTimeout)
		return
	}

	local := pc.LocalDescription()
	candidate := firstHostCandidate(local.SDP)
	if candidate == "" {
		http.Error(w, "no host candidate gathered", http.StatusInternalServerError)
		return
	}

	resp := sessionResponse{
		Answer:    answerBody{SDP: local.SDP},
		Candidate: candidateBody{Candidate: candidate},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func firstHostCandidate(sdp string) string {
	match := candidateLinePattern.FindStringSubmatch(sdp)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
