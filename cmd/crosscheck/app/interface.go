package app

import (
	"github.com/revenueops/crosscheck/cmd/application"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
