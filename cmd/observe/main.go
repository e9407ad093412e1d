// Command observe connects to a running server's observer endpoint and
// prints per-tick telemetry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"terravox/internal/observerproto"
)

func main() {
	var (
		url   = flag.String("url", "ws://127.0.0.1:8080/observer/v1/ws", "observer websocket url")
		every = flag.Uint64("every", 10, "print every Nth tick")
	)
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *url, err)
	}
	defer conn.Close()

	sub := observerproto.SubscribeMsg{Type: "SUBSCRIBE", ProtocolVersion: observerproto.Version}
	if err := conn.WriteJSON(sub); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg observerproto.TickMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if *every > 0 && msg.Tick%*every != 0 {
			continue
		}
		fmt.Printf("tick=%d t=%.3f weather=%s chunks=%d pending=%d blocks=%d creatures=%d\n",
			msg.Tick, msg.TimeOfDay, msg.Weather,
			msg.Loading.LoadedChunks, msg.Loading.PendingChunks, msg.Loading.TotalBlocks,
			len(msg.Creatures))
	}
}
