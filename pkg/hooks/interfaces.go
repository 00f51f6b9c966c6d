//go:generate mockgen -destination=./mocks/hooks.go . HookManager

package hooks

import "context"

// HookManager defines the interface for managing hooks.
type HookManager interface {
	// Execute runs the script registered for hookType; without one it does nothing.
	Execute(ctx context.Context, hookType HookType, hctx HookContext) error

	// AddHook adds or replaces the hook of hook.Type.
	AddHook(hook Hook) error

	// RemoveHook removes a hooks of the specified type
	RemoveHook(hookType HookType) error

	// HasHook checks if a hooks of the specified type exists
	HasHook(hookType HookType) bool
}
