// Package iface defines service interfaces for the vmforge CLI.
// These interfaces enable dependency injection and mocking for tests.
package iface

import (
	"context"

	"github.com/vmforge/vmforge-cli/internal/session"
)

// SessionService defines the interface for the authenticated session
type SessionService interface {
	// Login authenticates with the panel and stores the token pair
	Login(ctx context.Context, creds session.Credentials) error

	// Logout clears stored credentials and returns to Anonymous
	Logout()

	// FetchUser validates the stored token and refreshes the profile
	FetchUser(ctx context.Context) error

	// Initialize reconciles persisted tokens with in-memory state at
	// process start; runs at most once
	Initialize(ctx context.Context)

	// State returns the current session snapshot
	State() session.State
}
