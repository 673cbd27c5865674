// Command client is the demo ping/pong client: it connects to a signalling
// server, writes a single "PING" message, and prints whatever comes back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/pion/logging"

	"github.com/unreliable-datagram/webrtcdc"
	"github.com/unreliable-datagram/webrtcdc/internal/config"
)

func main() {
	serverURL := flag.String("url", "http://127.0.0.1:14191/rtc_session", "signalling server URL")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	loggerFactory := logging.NewDefaultLoggerFactory()
	if *verbose {
		loggerFactory.DefaultLogLevel = logging.LogLevelDebug
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	addrCell, toServer, fromServer, err := webrtcdc.Connect(ctx, *serverURL,
		config.WithLoggerFactory(loggerFactory),
	)
	if err != nil {
		log.Fatalf("client: connect failed: %v", err)
	}

	if addr := addrCell.Get(); addr.IsFound() {
		log.Printf("client: server address resolved to %s", addr.Addr().String())
	}

	toServer <- []byte("PING")
	log.Print("client: wrote PING")

	select {
	case msg, ok := <-fromServer:
		if !ok {
			log.Fatal("client: connection closed before a reply arrived")
		}
		fmt.Printf("client: received %q\n", msg)
	case <-ctx.Done():
		log.Fatal("client: timed out waiting for a reply")
	}
}
