package ratelimit

import (
	"testing"
	"time"
)

func TestFixedDelayFirstCallImmediate(t *testing.T) {
	fd := NewFixedDelay(time.Second)

	start := time.Now()
	fd.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait() blocked for %v, expected immediate", elapsed)
	}
}

func TestFixedDelayEnforcesInterval(t *testing.T) {
	interval := 50 * time.Millisecond
	fd := NewFixedDelay(interval)

	fd.Wait()
	start := time.Now()
	fd.Wait()
	if elapsed := time.Since(start); elapsed < interval-5*time.Millisecond {
		t.Errorf("second Wait() returned after %v, expected at least %v", elapsed, interval)
	}
}

func TestFixedDelayAllow(t *testing.T) {
	fd := NewFixedDelay(time.Hour)

	if !fd.Allow() {
		t.Error("first Allow() should succeed")
	}
	if fd.Allow() {
		t.Error("second Allow() within the interval should fail")
	}

	fd.Reset()
	if !fd.Allow() {
		t.Error("Allow() after Reset() should succeed")
	}
}

func TestFixedDelayZeroInterval(t *testing.T) {
	fd := NewFixedDelay(0)

	for i := 0; i < 3; i++ {
		start := time.Now()
		fd.Wait()
		if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
			t.Errorf("Wait() with zero interval blocked for %v", elapsed)
		}
	}
}

func TestTokenBucketAllowsBurst(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Allow() call %d should succeed within capacity", i+1)
		}
	}
	if tb.Allow() {
		t.Error("Allow() beyond capacity should fail")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 20*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("first Allow() should succeed")
	}
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(30 * time.Millisecond)
	if !tb.Allow() {
		t.Error("Allow() after refill period should succeed")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	tb.Allow()
	tb.Reset()
	if !tb.Allow() {
		t.Error("Allow() after Reset() should succeed")
	}
}
