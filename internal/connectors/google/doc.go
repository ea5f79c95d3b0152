// Package google provides shared infrastructure for Google API
// connectors: service construction, token sources, rate limiting and
// error classification.
package google
