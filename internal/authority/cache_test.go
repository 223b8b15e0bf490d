package authority

import (
	"testing"
	"time"

	"TokenSentinel/internal/model"
)

func TestCache_RoundTripAndExpiry(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(600 * time.Second)
	c.now = func() time.Time { return clock }

	facts := &model.TickerFacts{Symbol: "DOGS", Name: "Dogs", Type: model.TypeJetton}
	c.Put("DOGS", true, facts)

	valid, got, ok := c.Get("DOGS")
	if !ok || !valid {
		t.Fatal("expected cached valid entry before TTL")
	}
	if got != facts {
		t.Error("expected the same payload back")
	}

	// Advance the clock past the TTL.
	clock = clock.Add(601 * time.Second)
	if _, _, ok := c.Get("DOGS"); ok {
		t.Error("expected entry to expire after TTL")
	}
}

func TestCache_NegativeEntries(t *testing.T) {
	c := NewCache(0)
	c.Put("FAKE", false, nil)

	valid, facts, ok := c.Get("FAKE")
	if !ok {
		t.Fatal("negative entries must be cacheable")
	}
	if valid || facts != nil {
		t.Errorf("expected invalid entry with no payload, got valid=%v facts=%v", valid, facts)
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	c := NewCache(0)
	c.Put("MCOM", false, nil)
	c.Put("MCOM", true, &model.TickerFacts{Symbol: "MCOM"})

	valid, _, ok := c.Get("MCOM")
	if !ok || !valid {
		t.Error("fresh verification should overwrite the previous verdict")
	}
}

func TestCache_Sweep(t *testing.T) {
	clock := time.Now()
	c := NewCache(time.Minute)
	c.now = func() time.Time { return clock }

	c.Put("AAA", true, nil)
	c.Put("BBB", false, nil)
	clock = clock.Add(2 * time.Minute)
	c.Put("CCC", true, nil)

	if dropped := c.Sweep(); dropped != 2 {
		t.Errorf("expected 2 dropped entries, got %d", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 surviving entry, got %d", c.Len())
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(time.Minute)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				c.Put("DOGS", j%2 == 0, nil)
				c.Get("DOGS")
				c.Sweep()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
