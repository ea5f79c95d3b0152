// Package connectors contains integrations with external document
// stores. Each connector adapts a remote API to the driven ports the
// core services consume.
package connectors
