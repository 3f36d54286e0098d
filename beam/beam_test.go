package beam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"glap/world"
)

func TestBeaminHitDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session"); got != "tok-1" {
			t.Errorf("session query = %q, want tok-1", got)
		}
		json.NewEncoder(w).Encode(Response{
			Layout:       &world.RecursivePartDescription{Kind: world.PartCore},
			IsAdmin:      true,
			BeamoutToken: "next-token",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	resp, ok := c.Beamin(context.Background(), "tok-1")
	if !ok {
		t.Fatal("Beamin() ok = false, want true")
	}
	if !resp.IsAdmin || resp.BeamoutToken != "next-token" || resp.Layout.Kind != world.PartCore {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBeaminMissOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, ok := c.Beamin(context.Background(), "missing")
	if ok {
		t.Fatal("Beamin() ok = true on a 404, want false")
	}
}

func TestBeaminUnconfiguredAlwaysMisses(t *testing.T) {
	c := NewClient("", "")
	_, ok := c.Beamin(context.Background(), "anything")
	if ok {
		t.Fatal("Beamin() with no BeaminURL should always miss")
	}
}

func TestBeamoutPostsSnapshot(t *testing.T) {
	var got int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var desc world.RecursivePartDescription
		if err := json.NewDecoder(r.Body).Decode(&desc); err != nil {
			t.Errorf("decoding beamout body: %v", err)
		}
		if desc.Kind == world.PartCore {
			atomic.StoreInt32(&got, 1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	c.Beamout("tok-2", &world.RecursivePartDescription{Kind: world.PartCore})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&got) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("beamout POST never observed by the test server")
}

func TestBeamoutUnconfiguredIsNoop(t *testing.T) {
	c := NewClient("", "")
	c.Beamout("tok-3", &world.RecursivePartDescription{Kind: world.PartCore})
}

func TestNewTokenIsUniqueAndNonEmpty(t *testing.T) {
	a, b := NewToken(), NewToken()
	if a == "" || b == "" {
		t.Fatal("NewToken() returned an empty string")
	}
	if a == b {
		t.Fatal("NewToken() returned the same token twice")
	}
}
