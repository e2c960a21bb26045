// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache stores raw feed bodies; nil disables caching
	Cache Cache

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Store resolves publications and issues; optional for feed-only use
	Store PublicationStore

	// Publisher receives finished digests; optional
	Publisher DigestPublisher
}
