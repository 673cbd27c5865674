// Package signaling posts the local SDP offer to the server's HTTP
// signalling endpoint and decodes its JSON reply, retrying the POST on
// transport failure the way the original client does (an unbounded 1
// second retry, left uncapped per the open question on retry budget).
package signaling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/unreliable-datagram/webrtcdc/pkg/rtcerr"
)

// DefaultRetryInterval is how long Connect sleeps between POST attempts
// when the signalling server is unreachable.
const DefaultRetryInterval = time.Second

// Answer is the server's reply to the offer.
type Answer struct {
	SDP       string
	Candidate string
}

// sessionResponse mirrors the JSON shape the server replies with:
//
//	{ "answer": {"sdp": "..."}, "candidate": {"candidate": "..."} }
type sessionResponse struct {
	Answer struct {
		SDP string `json:"sdp"`
	} `json:"answer"`
	Candidate struct {
		Candidate string `json:"candidate"`
	} `json:"candidate"`
}

// Client posts SDP offers to a signalling server and parses its answers.
type Client struct {
	HTTPClient    *http.Client
	RetryInterval time.Duration
}

// NewClient returns a Client with sane defaults.
func NewClient() *Client {
	return &Client{HTTPClient: http.DefaultClient, RetryInterval: DefaultRetryInterval}
}

// Connect posts offerSDP to serverURL, retrying indefinitely on transport
// error, and parses the server's answer once a response is received.
func (c *Client) Connect(serverURL, offerSDP string) (Answer, error) {
	retryInterval := c.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}

	var body []byte
	for {
		req, err := http.NewRequest(http.MethodPost, serverURL, bytes.NewReader([]byte(offerSDP)))
		if err != nil {
			return Answer{}, &rtcerr.ConfigurationError{Err: fmt.Errorf("signaling: building request: %w", err)}
		}
		req.ContentLength = int64(len(offerSDP))

		resp, err := c.httpClient().Do(req)
		if err != nil {
			time.Sleep(retryInterval)
			continue
		}

		body, err = io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if err != nil {
			time.Sleep(retryInterval)
			continue
		}
		if closeErr != nil {
			time.Sleep(retryInterval)
			continue
		}
		break
	}

	var parsed sessionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Answer{}, &rtcerr.SignallingError{Err: fmt.Errorf("signaling: decoding response: %w", err)}
	}
	if parsed.Answer.SDP == "" {
		return Answer{}, &rtcerr.SignallingError{Err: fmt.Errorf("signaling: response missing answer.sdp")}
	}
	if parsed.Candidate.Candidate == "" {
		return Answer{}, &rtcerr.SignallingError{Err: fmt.Errorf("signaling: response missing candidate.candidate")}
	}

	return Answer{SDP: parsed.Answer.SDP, Candidate: parsed.Candidate.Candidate}, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
