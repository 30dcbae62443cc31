// Package ports defines the core interfaces for the application.
package ports

import "context"

// Executor runs one shell command to completion through the platform shell.
// Stdout and stderr are inherited from the driver process; nothing is
// captured. A non-zero exit status is reported as an error carrying the
// exit code.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	Execute(ctx context.Context, command string) error
}
