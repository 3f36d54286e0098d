// Package beam implements the beam-in/beam-out persistence protocol: GET a
// player's saved part tree by session token on connect, POST it back on
// disconnect. The HTTP store itself is an external collaborator (spec §6);
// this package only speaks the request/response shapes it exposes.
package beam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"glap/metrics"
	"glap/world"
)

// Client talks to the beam-in/beam-out HTTP store. Either URL may be empty,
// in which case that half of the protocol is disabled (every beam-in misses,
// every beam-out is skipped).
type Client struct {
	BeaminURL  string
	BeamoutURL string
	HTTP       *http.Client
}

// NewClient builds a Client with a bounded request timeout, mirroring the
// teacher's preference for explicit http.Server timeouts over relying on
// defaults.
func NewClient(beaminURL, beamoutURL string) *Client {
	return &Client{
		BeaminURL:  beaminURL,
		BeamoutURL: beamoutURL,
		HTTP:       &http.Client{Timeout: 5 * time.Second},
	}
}

// Response is the BeaminResponse JSON shape from spec.md §6.
type Response struct {
	Layout       *world.RecursivePartDescription `json:"layout"`
	IsAdmin      bool                             `json:"is_admin"`
	BeamoutToken string                           `json:"beamout_token"`
}

// Beamin fetches a saved layout for sessionToken. A non-2xx response, a
// transport error, or an unconfigured BeaminURL all mean "no saved state":
// the caller spawns its default layout instead, per spec §7.
func (c *Client) Beamin(ctx context.Context, sessionToken string) (*Response, bool) {
	if c.BeaminURL == "" {
		return nil, false
	}
	url := fmt.Sprintf("%s?session=%s", c.BeaminURL, sessionToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("beam: building beamin request: %v", err)
		metrics.BeaminTotal.WithLabelValues("error").Inc()
		return nil, false
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Printf("beam: beamin request failed: %v", err)
		metrics.BeaminTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.BeaminTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Printf("beam: decoding beamin response: %v", err)
		metrics.BeaminTotal.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.BeaminTotal.WithLabelValues("hit").Inc()
	return &out, true
}

// Beamout POSTs layout (a snapshot taken before the player's parts were
// removed from the world, never a live handle) to the beam-out store in a
// detached goroutine: the protocol is fire-and-forget, per spec §9.
func (c *Client) Beamout(sessionToken string, layout *world.RecursivePartDescription) {
	if c.BeamoutURL == "" {
		return
	}
	body, err := json.Marshal(layout)
	if err != nil {
		log.Printf("beam: marshaling beamout layout: %v", err)
		metrics.BeamoutTotal.WithLabelValues("error").Inc()
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		url := fmt.Sprintf("%s?session=%s", c.BeamoutURL, sessionToken)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			log.Printf("beam: building beamout request: %v", err)
			metrics.BeamoutTotal.WithLabelValues("error").Inc()
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			log.Printf("beam: beamout request failed: %v", err)
			metrics.BeamoutTotal.WithLabelValues("error").Inc()
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Printf("beam: beamout rejected with status %d", resp.StatusCode)
			metrics.BeamoutTotal.WithLabelValues("rejected").Inc()
			return
		}
		metrics.BeamoutTotal.WithLabelValues("ok").Inc()
	}()
}

// NewToken mints an opaque beamout token for a player whose beam-in found
// no saved state, so its layout can still be beamed out when it leaves.
func NewToken() string {
	return uuid.NewString()
}
