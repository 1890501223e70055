// Package bus routes commands and queries to exactly one registered handler.
//
// Handlers are bound once at start-up, before the first Dispatch; the registry
// is read-only afterwards and safe for concurrent use. Binding a second handler
// to the same kind panics. Dispatch never inspects or rewrites handler errors.
package bus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind identifies one command or query type.
type Kind string

// Request is a command or query value.
type Request interface {
	Kind() Kind
}

// HandlerFunc is the untyped form of a registered handler.
type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Middleware wraps every dispatch of kind.
type Middleware func(kind Kind, next HandlerFunc) HandlerFunc

var (
	ErrNoHandler   = errors.New("bus: no handler registered")
	ErrRequestType = errors.New("bus: request type mismatch")
	ErrResultType  = errors.New("bus: result type mismatch")
)

type Bus struct {
	handlers   map[Kind]HandlerFunc
	middleware []Middleware
}

func New() *Bus {
	return &Bus{handlers: make(map[Kind]HandlerFunc)}
}

// Use appends dispatch middleware. The first one registered runs outermost.
func (b *Bus) Use(mw ...Middleware) {
	b.middleware = append(b.middleware, mw...)
}

// Register binds h to kind. It panics on an empty kind or a second binding.
func (b *Bus) Register(kind Kind, h HandlerFunc) {
	if kind == "" {
		panic("bus: empty request kind")
	}
	if h == nil {
		panic(fmt.Sprintf("bus: nil handler for %q", kind))
	}
	if _, dup := b.handlers[kind]; dup {
		panic(fmt.Sprintf("bus: duplicate handler for %q", kind))
	}
	b.handlers[kind] = h
}

// Handle registers a typed handler for the request type R. The kind is taken
// from R's zero value.
func Handle[R Request, T any](b *Bus, h func(ctx context.Context, req R) (T, error)) {
	var zero R
	kind := zero.Kind()
	b.Register(kind, func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(R)
		if !ok {
			return nil, fmt.Errorf("%w: %q cannot take %T", ErrRequestType, kind, req)
		}
		res, err := h(ctx, typed)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// Require returns an error naming every kind without a handler.
func (b *Bus) Require(kinds ...Kind) error {
	var missing []string
	for _, k := range kinds {
		if _, ok := b.handlers[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w for %s", ErrNoHandler, strings.Join(missing, ", "))
	}
	return nil
}

// Kinds returns the registered kinds in sorted order.
func (b *Bus) Kinds() []Kind {
	out := make([]Kind, 0, len(b.handlers))
	for k := range b.handlers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Dispatch runs the handler registered for req's kind and returns its result
// verbatim.
func (b *Bus) Dispatch(ctx context.Context, req Request) (any, error) {
	kind := req.Kind()
	h, ok := b.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoHandler, kind)
	}
	for i := len(b.middleware) - 1; i >= 0; i-- {
		h = b.middleware[i](kind, h)
	}
	return h(ctx, req)
}

// Dispatch is the typed form of (*Bus).Dispatch.
func Dispatch[T any](ctx context.Context, b *Bus, req Request) (T, error) {
	var zero T
	res, err := b.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q returned %T", ErrResultType, req.Kind(), res)
	}
	return typed, nil
}
