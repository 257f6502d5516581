// Package application provides the application interface for crosscheck commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Design Principles:
//   - Accept interfaces, return structs (Go proverb)
//   - Define interfaces where they're used, not where they're implemented
//   - Keep interfaces small and focused
//
// Usage in Commands:
//
//	import (
//	    "github.com/revenueops/crosscheck/cmd/application"
//	)
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            book, err := app.Book()
//	            if err != nil {
//	                return err
//	            }
//	            // ... reconcile against book
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/revenueops/crosscheck/pkg/commission"
)

// Application provides the application interface that commands need.
// The App struct from cmd/crosscheck/app automatically implements this
// interface, providing dependency injection for commands while maintaining
// testability.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Book returns the commission plan book from the app configuration.
	// The instance is lazy-initialized and cached, so repeated calls are cheap.
	Book() (*commission.Book, error)

	// Indicators returns the configured central processing indicators.
	// An empty slice means the reconciliation defaults apply.
	Indicators() []string

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, etc).
	// Commands that support different output formats should use this.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
