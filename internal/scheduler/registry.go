package scheduler

import (
	"context"
	"fmt"

	"github.com/midastechnical/storefront-sync/pkg/enums"
)

// Handler executes one kind of scheduled task. The returned message is stored
// on the completed task log.
type Handler interface {
	Type() enums.TaskType
	Run(ctx context.Context) (string, error)
}

// Registry maps task types to their handlers. The mapping is closed: a task
// row whose type has no registered handler fails its execution instead of
// being silently ignored.
type Registry struct {
	handlers map[enums.TaskType]Handler
}

// NewRegistry builds a registry preloaded with the provided handlers.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	registry := &Registry{handlers: make(map[enums.TaskType]Handler)}
	for _, handler := range handlers {
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register adds a handler. Duplicate registrations for a type are rejected.
func (r *Registry) Register(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler required")
	}
	taskType := handler.Type()
	if !taskType.IsValid() {
		return fmt.Errorf("invalid task type %q", taskType)
	}
	if _, exists := r.handlers[taskType]; exists {
		return fmt.Errorf("handler for %q already registered", taskType)
	}
	r.handlers[taskType] = handler
	return nil
}

// Resolve returns the handler for the task type.
func (r *Registry) Resolve(taskType enums.TaskType) (Handler, error) {
	handler, ok := r.handlers[taskType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for task type %q", taskType)
	}
	return handler, nil
}

// Types returns the registered task types.
func (r *Registry) Types() []enums.TaskType {
	types := make([]enums.TaskType, 0, len(r.handlers))
	for taskType := range r.handlers {
		types = append(types, taskType)
	}
	return types
}
