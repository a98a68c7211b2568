package repositories

import "context"

// Repository aggregates all repository interfaces of the service.
type Repository interface {
	// Profile domain
	Profile() ProfileRepository

	// Mentorship domain
	Request() RequestRepository
	Message() MessageRepository

	// Auth domain (backed by the hosted auth backend, read-mostly)
	Auth() AuthRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	// Initialize repositories with their connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
