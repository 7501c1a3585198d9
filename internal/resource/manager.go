package resource

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imamik/gkeops/internal/util/wait"
)

// manager is the composite half of a resource: it owns a dynamic set of
// child nodes of one declared kind and keeps the local child map mirroring
// provider-side existence to best current knowledge.
//
// The child map is mutated only by CreateResource and DeleteResource on the
// calling goroutine; concurrent mutation is not supported.
type manager struct {
	self     Parent
	kind     Kind
	children map[string]Node
	newChild func(ctx context.Context, name string) (Node, error)

	obs      Observer
	interval time.Duration
	out      io.Writer
}

func newManager(self Parent, kind Kind, newChild func(ctx context.Context, name string) (Node, error)) manager {
	return manager{
		self:     self,
		kind:     kind,
		children: make(map[string]Node),
		newChild: newChild,
		obs:      NewConsoleObserver(),
		interval: 500 * time.Millisecond,
		out:      os.Stderr,
	}
}

// reconcile repopulates the child map by listing existing children from the
// provider. Called at construction so the manager starts from provider
// truth rather than an assumed-empty world.
func (m *manager) reconcile(ctx context.Context) error {
	ops := operationsFor(m.kind)
	names, err := ops.list(ctx, m.self.API(), m.self.ResourceName())
	if err != nil {
		return fmt.Errorf("failed to list existing %ss under %s: %w", m.kind, m.self.ResourceName(), err)
	}
	for _, name := range names {
		child, err := m.newChild(ctx, name)
		if err != nil {
			return err
		}
		m.children[child.ResourceName()] = child
	}
	return nil
}

// Resources returns the flattened union of direct children and, for any
// child that is itself a manager, that child's own resources. Supports the
// cluster → node-pool hierarchy without hardcoding depth.
func (m *manager) Resources() map[string]Node {
	out := make(map[string]Node, len(m.children))
	for name, child := range m.children {
		out[name] = child
		if sub, ok := child.(interface{ Resources() map[string]Node }); ok {
			for subName, subChild := range sub.Resources() {
				out[subName] = subChild
			}
		}
	}
	return out
}

// CreateResource creates the resource described by spec and blocks until
// the control plane reports it ready. The total cost is dominated by the
// wait, not the create call. On success the node is inserted into the
// child map.
func (m *manager) CreateResource(ctx context.Context, spec Spec) (Node, error) {
	if spec.Kind != m.kind {
		return nil, fmt.Errorf("%w: manager of %ss cannot create a %s", ErrKindMismatch, m.kind, spec.Kind)
	}
	if spec.Name() == "" {
		return nil, fmt.Errorf("%w: spec has no name", ErrKindMismatch)
	}

	node, err := m.newChild(ctx, spec.Name())
	if err != nil {
		return nil, err
	}

	m.obs.Event(Event{Type: EventResourceCreating, Kind: m.kind, Resource: node.ResourceName()})

	creator, ok := node.(interface {
		create(ctx context.Context, spec Spec) (bool, error)
	})
	if !ok {
		return nil, fmt.Errorf("node %s does not support creation", node.ResourceName())
	}
	existed, err := creator.create(ctx, spec)
	if err != nil {
		m.obs.Event(Event{Type: EventResourceFailed, Kind: m.kind, Resource: node.ResourceName(), Message: err.Error()})
		return nil, err
	}
	if existed {
		m.obs.Event(Event{Type: EventResourceExists, Kind: m.kind, Resource: node.ResourceName()})
	}

	label := fmt.Sprintf("%s %s", m.kind, node.ResourceName())
	err = wait.For(ctx,
		func() (bool, error) { return node.IsReady(ctx) },
		wait.WithInterval(m.interval),
		wait.WithMessage("Waiting for "+label+" to become ready"),
		wait.WithDoneMessage(label+" ready"),
		wait.WithOutput(m.out),
	)
	if err != nil {
		m.obs.Event(Event{Type: EventResourceFailed, Kind: m.kind, Resource: node.ResourceName(), Message: err.Error()})
		return nil, err
	}

	m.children[node.ResourceName()] = node
	m.obs.Event(Event{Type: EventResourceCreated, Kind: m.kind, Resource: node.ResourceName()})
	return node, nil
}

// DeleteResource removes node in two polled phases: first the delete
// request itself is retried until the control plane accepts it (the
// resource may be tied up in another operation), then deletion is polled
// until the provider confirms removal. The child map entry is dropped only
// after both phases succeed.
func (m *manager) DeleteResource(ctx context.Context, node Node) error {
	label := fmt.Sprintf("%s %s", node.Kind(), node.ResourceName())
	m.obs.Event(Event{Type: EventResourceDeleting, Kind: node.Kind(), Resource: node.ResourceName()})

	err := wait.For(ctx,
		func() (bool, error) { return node.SubmitDelete(ctx) },
		wait.WithInterval(m.interval),
		wait.WithMessage("Waiting for "+label+" to become available to delete"),
		wait.WithDoneMessage(label+" delete request submitted"),
		wait.WithOutput(m.out),
	)
	if err != nil {
		m.obs.Event(Event{Type: EventResourceFailed, Kind: node.Kind(), Resource: node.ResourceName(), Message: err.Error()})
		return err
	}

	err = wait.For(ctx,
		func() (bool, error) { return node.IsDeleted(ctx) },
		wait.WithInterval(m.interval),
		wait.WithMessage("Waiting for "+label+" to delete"),
		wait.WithDoneMessage(label+" deleted"),
		wait.WithOutput(m.out),
	)
	if err != nil {
		m.obs.Event(Event{Type: EventResourceFailed, Kind: node.Kind(), Resource: node.ResourceName(), Message: err.Error()})
		return err
	}

	delete(m.children, node.ResourceName())
	m.obs.Event(Event{Type: EventResourceDeleted, Kind: node.Kind(), Resource: node.ResourceName()})
	return nil
}

// ManageResource is the scoped acquisition pattern: create the resource,
// run fn with it, and guarantee deletion on every exit path unless keep is
// set. Cleanup runs even when the surrounding context has been cancelled,
// so an aborted run does not leave infrastructure behind. If both fn and
// cleanup fail, fn's error wins.
func (m *manager) ManageResource(ctx context.Context, spec Spec, keep bool, fn func(Node) error) error {
	node, err := m.CreateResource(ctx, spec)
	if err != nil {
		return err
	}

	fnErr := fn(node)
	if keep {
		return fnErr
	}

	if fnErr != nil {
		m.obs.Event(Event{
			Type:     EventResourceFailed,
			Kind:     node.Kind(),
			Resource: node.ResourceName(),
			Message:  fmt.Sprintf("encountered error, removing resource: %v", fnErr),
		})
	}

	if delErr := m.DeleteResource(context.WithoutCancel(ctx), node); delErr != nil {
		if fnErr != nil {
			return fnErr
		}
		return delErr
	}
	return fnErr
}
