package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct {
	scripts map[HookType]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[HookType]string),
	}
}

// Execute runs the script of hookType with hctx exposed as global variables.
// A script signals failure by assigning a string or error to `err`.
func (e *TengoExecutor) Execute(ctx context.Context, hookType HookType, hctx HookContext) error {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	s := tengo.NewScript([]byte(script))
	s.SetImports(stdlib.GetModuleMap("fmt", "os", "strings", "text", "time", "json"))

	files := make([]interface{}, len(hctx.Files))
	for i, f := range hctx.Files {
		files[i] = f
	}
	vars := []struct {
		name  string
		value interface{}
	}{
		{"hookType", string(hookType)},
		{"galleryID", hctx.GalleryID},
		{"galleryKind", hctx.GalleryKind},
		{"title", hctx.Title},
		{"directory", hctx.Directory},
		{"itemCount", hctx.ItemCount},
		{"batchID", hctx.BatchID},
		{"attempted", hctx.Attempted},
		{"succeeded", hctx.Succeeded},
		{"failed", hctx.Failed},
		{"files", files},
		// declared so scripts may assign it without `:=`
		{"err", ""},
	}
	for _, v := range vars {
		if err := s.Add(v.name, v.value); err != nil {
			return fmt.Errorf("failed to add %s to script: %w", v.name, err)
		}
	}
	for k, v := range hctx.Vars {
		if err := s.Add(k, v); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", k, err)
		}
	}

	compiled, err := s.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", hookType, ErrHookExecution, err)
	}

	switch v := compiled.Get("err").Value().(type) {
	case error:
		return fmt.Errorf("%s: %w: %w", hookType, ErrHookScript, v)
	case string:
		if v != "" {
			return fmt.Errorf("%s: %w: %s", hookType, ErrHookScript, v)
		}
	}
	return nil
}

// AddScript adds or updates a script for the specified hooks type.
func (e *TengoExecutor) AddScript(hookType HookType, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// RemoveScript removes the script for the specified hooks type.
func (e *TengoExecutor) RemoveScript(hookType HookType) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
}

// HasScript checks if a script exists for the specified hooks type.
func (e *TengoExecutor) HasScript(hookType HookType) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
