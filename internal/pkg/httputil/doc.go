// Package httputil provides shared HTTP response helpers for handlers,
// keeping JSON formatting and error envelopes consistent across
// endpoints.
package httputil
