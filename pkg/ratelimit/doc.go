// Package ratelimit paces outgoing Flickr API calls.
//
// Two strategies are provided. FixedDelay sleeps a constant interval
// between consecutive calls, matching the service's courtesy-delay
// guidance. TokenBucket permits short bursts while bounding the sustained
// request rate. Both satisfy the Limiter interface, so callers can swap
// strategies without changing call ordering.
package ratelimit
