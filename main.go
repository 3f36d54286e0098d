package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glap/beam"
	"glap/gameserver"
	"glap/rigid"
	"glap/session"
)

func main() {
	port := flag.String("port", envOr("PORT", "8080"), "Server port")
	beaminURL := flag.String("beamin-url", os.Getenv("BEAMIN_URL"), "Beam-in store base URL (empty disables beam-in)")
	beamoutURL := flag.String("beamout-url", os.Getenv("BEAMOUT_URL"), "Beam-out store base URL (empty disables beam-out)")
	flag.Parse()

	log.Printf("Starting glap server on port %s", *port)

	toGame := make(chan session.ToGameEvent, 256)
	toSerial := make(chan session.ToSerializerEvent, 1024)
	suspended := session.NewSuspendedPlayers()

	game := gameserver.NewGame(rigid.New(), toGame, toSerial, beam.NewClient(*beaminURL, *beamoutURL), suspended)
	serializer := session.NewSerializer(toSerial)

	go game.Run()
	go serializer.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebsocket(w, r, toGame, toSerial, suspended, game.NextID)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running at http://localhost:%s", *port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Shutting down server (signal: %v)...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	close(toGame)

	log.Println("Server stopped")
}

// handleWebsocket hijacks the HTTP connection's raw net.Conn and hands it
// to a Reader; wsproto does its own handshake over the hijacked socket
// rather than going through a net/http-aware upgrader.
func handleWebsocket(w http.ResponseWriter, r *http.Request, toGame chan<- session.ToGameEvent, toSerial chan<- session.ToSerializerEvent, suspended *session.SuspendedPlayers, nextID func() session.PlayerID) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		http.Error(w, "websocket hijack unsupported", http.StatusInternalServerError)
		return
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		log.Printf("main: hijack failed: %v", err)
		return
	}

	reader := &session.Reader{
		Conn:      conn,
		ToGame:    toGame,
		ToSerial:  toSerial,
		Suspended: suspended,
		NextID:    nextID,
	}
	go reader.Run()
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
