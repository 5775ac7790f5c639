package service

import "context"

// lifetime is bound to one view. Requests scoped to it are canceled when the
// view closes, and results that arrive afterwards are discarded.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// scope derives a request context canceled by either the caller or the view.
func (l lifetime) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) closed() bool {
	return l.ctx.Err() != nil
}

func (l lifetime) close() {
	l.cancel()
}
