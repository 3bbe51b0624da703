// Package scheduler owns the process's background modules: the periodic
// view-count flush, the periodic total-views recompute, and the view event
// consumer. Modules are registered at process start and cancelled together
// at process stop.
package scheduler

import (
	"context"
	"sync"
	"time"

	Logger "github.com/Park-yeongseo/Blog-Project/utils/log"
)

const gracefulRetryDelay = 3 * time.Second

// Module is a long-running background task whose lifecycle is bound to the
// engine's context.
type Module interface {
	// RunModule contains the customized logic of the module. It takes in a
	// context object by which its lifecycle is managed. Return error if
	// encountered any error during execution.
	RunModule(ctx context.Context) error

	// Return name of the Module. Uniquely identifies the module instance.
	Name() string
}

// RunModuleWithGracefulRestart keeps a module alive: if it exits with an
// error it is restarted after a short delay, until the context is cancelled.
func RunModuleWithGracefulRestart(ctx context.Context, module Module) {
	for {
		err := module.RunModule(ctx)
		if err == nil {
			return
		}
		Logger.Log.Errorf("module %s exited with error %v, retry in %s", module.Name(), err, gracefulRetryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(gracefulRetryDelay):
		}
	}
}

// Engine manages shared execution lifecycle of each module. Each Module runs
// in its own goroutine; modules share no state with each other.
type Engine struct {
	Modules []Module

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// NewEngine creates an engine owning the given modules, derived from the
// provided parent context.
func NewEngine(parent context.Context, modules ...Module) *Engine {
	ctx, cancel := context.WithCancel(parent)
	return &Engine{
		Modules: modules,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches every module. It returns immediately; use Shutdown to stop
// and wait.
func (e *Engine) Start() {
	for _, module := range e.Modules {
		e.wg.Add(1)
		go func(m Module) {
			defer e.wg.Done()
			Logger.Log.Infof("start engine module %s", m.Name())
			RunModuleWithGracefulRestart(e.ctx, m)
			Logger.Log.Infof("module %s finished execution", m.Name())
		}(module)
	}
}

// Shutdown cancels every module and blocks until all of them returned.
func (e *Engine) Shutdown() {
	Logger.Log.Infoln("starting graceful shutdown of background modules")
	e.cancel()
	e.wg.Wait()
}
