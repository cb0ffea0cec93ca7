// Package device collects client-side effects (clipboard, dialer, links)
// produced while handling a request. The HTTP layer returns them to the
// browser, which performs them.
package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
)

var ErrNoClient = errors.New("no client attached to context")

type ctxKey struct{}

// Actions is the per-request list of client actions.
type Actions struct {
	mu   sync.Mutex
	list []model.ClientAction
}

func (a *Actions) add(act model.ClientAction) {
	a.mu.Lock()
	a.list = append(a.list, act)
	a.mu.Unlock()
}

// List returns a copy of the recorded actions in order.
func (a *Actions) List() []model.ClientAction {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.ClientAction(nil), a.list...)
}

// Attach returns a context that records client actions into the returned list.
func Attach(ctx context.Context) (context.Context, *Actions) {
	a := &Actions{}
	return context.WithValue(ctx, ctxKey{}, a), a
}

// Carry copies the action list attached to src, if any, onto dst. Work that
// outlives the request context uses it to keep recording for the same client.
func Carry(src, dst context.Context) context.Context {
	a, err := from(src)
	if err != nil {
		return dst
	}
	return context.WithValue(dst, ctxKey{}, a)
}

func from(ctx context.Context) (*Actions, error) {
	a, ok := ctx.Value(ctxKey{}).(*Actions)
	if !ok || a == nil {
		return nil, ErrNoClient
	}
	return a, nil
}

var _ adapter.DeviceActions = Recorder{}

// Recorder implements adapter.DeviceActions against the request context.
type Recorder struct{}

func (Recorder) Copy(ctx context.Context, text string) error {
	a, err := from(ctx)
	if err != nil {
		return err
	}
	a.add(model.ClientAction{Kind: model.ActionCopy, Value: text})
	return nil
}

func (Recorder) Dial(ctx context.Context, uri string, after time.Duration) error {
	a, err := from(ctx)
	if err != nil {
		return err
	}
	a.add(model.ClientAction{Kind: model.ActionDial, Value: uri, DelayMS: after.Milliseconds()})
	return nil
}

func (Recorder) Open(ctx context.Context, uri string) error {
	a, err := from(ctx)
	if err != nil {
		return err
	}
	a.add(model.ClientAction{Kind: model.ActionOpen, Value: uri})
	return nil
}
