package utils

import (
	"context"
	"sync"

	goutils "go.viam.com/utils"
)

// StoppableWorkers is a set of goroutines sharing one cancellable context. Stop cancels the
// context and waits for every worker to return.
type StoppableWorkers struct {
	mu         sync.Mutex
	ctx        context.Context
	cancelFunc func()
	workers    sync.WaitGroup
}

// NewStoppableWorkers runs the functions in separate goroutines. They can be stopped later.
func NewStoppableWorkers(funcs ...func(context.Context)) *StoppableWorkers {
	ctx, cancel := context.WithCancel(context.Background())
	sw := &StoppableWorkers{ctx: ctx, cancelFunc: cancel}
	sw.Add(funcs...)
	return sw
}

// Add starts a goroutine for each function. After Stop it does nothing.
func (sw *StoppableWorkers) Add(funcs ...func(context.Context)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.ctx.Err() != nil {
		return
	}

	sw.workers.Add(len(funcs))
	for _, f := range funcs {
		f := f
		goutils.PanicCapturingGo(func() {
			defer sw.workers.Done()
			f(sw.ctx)
		})
	}
}

// Stop cancels the shared context and waits for all workers to return. It is safe to call more
// than once.
func (sw *StoppableWorkers) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.cancelFunc()
	sw.workers.Wait()
}

// Context is the context handed to workers.
func (sw *StoppableWorkers) Context() context.Context {
	return sw.ctx
}
