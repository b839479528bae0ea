package middleware

import (
	"testing"
	"time"
)

func TestBucketsRefill(t *testing.T) {
	now := time.Unix(0, 0)
	b := newBuckets(6, func() time.Time { return now })

	for i := 0; i < 6; i++ {
		if _, ok := b.take("k"); !ok {
			t.Fatalf("take %d rejected within budget", i)
		}
	}
	wait, ok := b.take("k")
	if ok {
		t.Fatal("expected empty bucket")
	}
	if wait != 10*time.Second {
		t.Errorf("wait = %v, want 10s", wait)
	}

	now = now.Add(10 * time.Second)
	if _, ok := b.take("k"); !ok {
		t.Error("expected one token after 10s")
	}
	if _, ok := b.take("k"); ok {
		t.Error("expected only one token after 10s")
	}

	// a long pause refills to capacity, not beyond
	now = now.Add(time.Hour)
	for i := 0; i < 6; i++ {
		if _, ok := b.take("k"); !ok {
			t.Fatalf("take %d rejected after refill", i)
		}
	}
	if _, ok := b.take("k"); ok {
		t.Error("bucket should cap at capacity")
	}
}

func TestBucketsDropIdle(t *testing.T) {
	now := time.Unix(0, 0)
	b := newBuckets(1, func() time.Time { return now })
	b.take("idle")
	now = now.Add(2 * time.Minute)
	b.take("active")
	b.dropIdle(now)
	if _, ok := b.byKey["idle"]; ok {
		t.Error("idle bucket should be dropped")
	}
	if _, ok := b.byKey["active"]; !ok {
		t.Error("active bucket should be kept")
	}
}
