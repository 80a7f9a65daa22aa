package router

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/safezone-app/navguard"
)

// ErrHistoryEmpty is returned by Back when there is nothing to go back to.
var ErrHistoryEmpty = errors.New("navigation history empty")

// Renderer is the UI boundary. Render draws a destination; RenderLoading
// draws the neutral waiting state for deferred decisions. Neither receives
// any authorization input — by the time a renderer runs, the decision is
// made.
type Renderer interface {
	Render(ctx context.Context, routeName, path string, params map[string]string) error
	RenderLoading(ctx context.Context, routeName string)
}

// Request describes one navigation attempt as seen by middleware.
type Request struct {
	RequestID  string
	Credential string
	Route      string
	Params     map[string]string
}

// Handler evaluates a navigation request into a decision.
type Handler func(ctx context.Context, req Request) (navguard.Decision, error)

// Middleware wraps a Handler. Middleware observes and annotates; it cannot
// mint an Allow the guard did not issue, because the innermost handler is
// always the guard itself.
type Middleware func(Handler) Handler

// Router executes guard decisions. All navigation for one client shell goes
// through one Router; its mutex serializes stack mutation and rendering.
type Router struct {
	mu       sync.Mutex
	guard    *navguard.Guard
	renderer Renderer
	chain    []Middleware
	history  History
}

// New creates a Router over a built guard and a renderer.
func New(guard *navguard.Guard, renderer Renderer) (*Router, error) {
	if guard == nil {
		return nil, navguard.ErrGuardNotReady
	}
	if renderer == nil {
		return nil, errors.New("renderer required")
	}
	return &Router{guard: guard, renderer: renderer}, nil
}

// Use appends middleware. Not safe to call after navigation has started.
func (r *Router) Use(mw Middleware) {
	r.chain = append(r.chain, mw)
}

// Navigate runs one navigation attempt: middleware chain, guard evaluation,
// then decision execution against the stack and renderer.
func (r *Router) Navigate(ctx context.Context, credential, routeName string, params map[string]string) (navguard.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigate(ctx, credential, routeName, params)
}

// Back pops the current screen and re-evaluates the previous one. The
// re-evaluation is the point: history frames are not pre-authorized, so a
// frame recorded before a logout or status change resolves to whatever the
// guard says now. The stack is one-directional: the popped frame is
// discarded, there is no forward history to return to.
func (r *Router) Back(ctx context.Context, credential string) (navguard.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Nothing underneath the current screen: fail without touching the
	// stack, so the frame still on display stays tracked.
	if r.history.Len() < 2 {
		return navguard.Decision{}, ErrHistoryEmpty
	}
	r.history.Pop()
	target, _ := r.history.Pop()
	return r.navigate(ctx, credential, target.Route, target.Params)
}

// Stack returns the current back-stack route names, bottom-up.
func (r *Router) Stack() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Routes()
}

func (r *Router) navigate(ctx context.Context, credential, routeName string, params map[string]string) (navguard.Decision, error) {
	req := Request{
		RequestID:  uuid.NewString(),
		Credential: credential,
		Route:      routeName,
		Params:     params,
	}

	handler := func(ctx context.Context, req Request) (navguard.Decision, error) {
		return r.guard.Evaluate(ctx, req.Credential, req.Route, req.Params)
	}
	for i := len(r.chain) - 1; i >= 0; i-- {
		handler = r.chain[i](handler)
	}

	d, err := handler(ctx, req)
	if err != nil {
		return navguard.Decision{}, err
	}

	if err := r.execute(ctx, d, params); err != nil {
		return d, err
	}
	return d, nil
}

func (r *Router) execute(ctx context.Context, d navguard.Decision, params map[string]string) error {
	switch d.Kind {
	case navguard.DecisionDefer:
		r.renderer.RenderLoading(ctx, d.Route)
		return nil

	case navguard.DecisionAllow:
		if err := r.renderer.Render(ctx, d.Route, d.Path, params); err != nil {
			return err
		}
		r.history.Push(d.Route, params)
		return nil

	case navguard.DecisionRedirect:
		// The anchor for verification truncation is the redirect target
		// itself: the guard only issues that policy toward the
		// verification entry route.
		r.history.Truncate(d.Truncate, d.Route)
		if err := r.renderer.Render(ctx, d.Route, d.Path, nil); err != nil {
			return err
		}
		if top, ok := r.history.Peek(); !ok || top.Route != d.Route {
			r.history.Push(d.Route, nil)
		}
		return nil
	}

	return nil
}
