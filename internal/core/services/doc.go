// Package services implements the core application logic: grounded
// retrieval, intent routing, tool dispatch, ingestion and the
// background sync scheduler. Services depend only on ports, never on
// concrete adapters.
package services
