package hooks

import (
	"context"
	"slices"

	"github.com/glorpus-work/imgurdl/internal/logger"
)

// DefaultHookManager is the default implementation of HookManager.
type DefaultHookManager struct {
	executor *TengoExecutor
}

// NewHookManager creates a new hook manager.
func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the specified hook type with the given context.
func (m *DefaultHookManager) Execute(ctx context.Context, hookType HookType, hctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}

	if hctx.Vars == nil {
		hctx.Vars = make(map[string]interface{})
	}

	logger.Debug("running hook", logger.Fields{"hook": string(hookType), "gallery": hctx.GalleryID})
	return m.executor.Execute(ctx, hookType, hctx)
}

// AddHook adds a new hook.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	if !slices.Contains(Types, hook.Type) {
		return ErrUnsupportedHookType(hook.Type)
	}
	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// RemoveHook removes a hook of the specified type.
func (m *DefaultHookManager) RemoveHook(hookType HookType) error {
	if hookType == "" {
		return ErrHookTypeEmpty
	}
	m.executor.RemoveScript(hookType)
	return nil
}

// HasHook checks if a hook of the specified type exists.
func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	return m.executor.HasScript(hookType)
}
