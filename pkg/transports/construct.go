// Package transports is the declarative construction entry point: it turns
// restricted textual expressions like "loopback(42)" into live Transport
// instances through an explicit factory registry, and guarantees that a
// partially failed multi-spec construction leaks nothing.
package transports

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"meshbus/pkg/transport"
)

// Factory builds a transport from parsed literal arguments.
type Factory func(args []any) (transport.Transport, error)

var (
	regMu     sync.RWMutex
	factories = make(map[string]Factory)
)

// Register binds a constructor name (case-insensitive, as produced by the
// parser) to a factory. Registering a duplicate name panics: the registry
// is assembled at init time and a collision is a programming error.
func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := factories[name]; dup {
		panic(fmt.Sprintf("transports: duplicate factory %q", name))
	}
	factories[name] = f
}

func lookup(name string) Factory {
	regMu.RLock()
	defer regMu.RUnlock()
	return factories[name]
}

// ConstructionError wraps the underlying cause of a failed construction.
// By the time it is returned, every transport built from the other
// specifications in the same call has been closed.
type ConstructionError struct {
	Spec string // offending expression, empty for call-level failures
	Err  error
}

func (e *ConstructionError) Error() string {
	if e.Spec == "" {
		return fmt.Sprintf("transport construction failed: %v", e.Err)
	}
	return fmt.Sprintf("transport construction failed for %q: %v", e.Spec, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Result is the tagged outcome of Build. Exactly one field is populated.
// Redundant is the declared seam for multi-transport aggregation; Build
// currently fails with transport.ErrUnsupported before ever producing it.
type Result struct {
	Single    transport.Transport
	Redundant []transport.Transport
}

// Build constructs one transport per specification expression. If any
// specification fails, all transports already built in the same call are
// closed before the error surfaces. More than one specification requests
// redundancy, which is not implemented: everything is closed and the call
// fails with transport.ErrUnsupported.
func Build(specs []string) (Result, error) {
	if len(specs) == 0 {
		return Result{}, &ConstructionError{Err: errors.New("no transport specifications given")}
	}

	g := newCloseGuard()
	defer g.release()

	for _, spec := range specs {
		tr, err := buildOne(spec)
		if err != nil {
			return Result{}, &ConstructionError{Spec: spec, Err: err}
		}
		g.add(tr)
	}

	if len(g.built) > 1 {
		return Result{}, fmt.Errorf("%w: redundant transport group of %d not implemented", transport.ErrUnsupported, len(g.built))
	}

	single := g.built[0]
	g.commit()
	return Result{Single: single}, nil
}

// Construct is the single-transport convenience over Build.
func Construct(specs ...string) (transport.Transport, error) {
	res, err := Build(specs)
	if err != nil {
		return nil, err
	}
	return res.Single, nil
}

func buildOne(spec string) (transport.Transport, error) {
	ex, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	f := lookup(ex.Name)
	if f == nil {
		return nil, fmt.Errorf("unknown transport constructor %q", ex.Name)
	}
	return f(ex.Args)
}

// closeGuard accumulates built transports and closes all of them on every
// exit path unless explicitly committed.
type closeGuard struct {
	built     []transport.Transport
	committed bool
}

func newCloseGuard() *closeGuard { return &closeGuard{} }

func (g *closeGuard) add(tr transport.Transport) { g.built = append(g.built, tr) }

func (g *closeGuard) commit() { g.committed = true }

func (g *closeGuard) release() {
	if g.committed {
		return
	}
	var err error
	for _, tr := range g.built {
		err = multierr.Append(err, tr.Close(context.Background()))
	}
	if err != nil {
		// Best-effort cleanup: log, never let this replace the original
		// construction error.
		zap.L().Warn("cleanup after failed transport construction", zap.Error(err))
	}
}
