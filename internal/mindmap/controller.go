package mindmap

import (
	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/outline"
)

// View is what a renderer draws: either a laid-out graph or the explicit
// nothing-to-show state for an outline without children.
type View struct {
	Empty bool  `json:"empty"`
	Graph Graph `json:"graph"`
}

// ClickHandler receives the outline node behind every activation.
type ClickHandler func(n outline.Node)

// Option configures a Controller.
type Option func(*Controller)

// WithClickHandler registers fn to be notified of every node activation.
func WithClickHandler(fn ClickHandler) Option {
	return func(c *Controller) {
		c.onClick = fn
	}
}

// Controller owns the expansion state for one outline. It is not safe for
// concurrent use; callers sharing one across goroutines must serialize access.
type Controller struct {
	root     outline.Node
	expanded Expansion
	onClick  ClickHandler
}

// NewController validates root and returns a controller showing it fully expanded.
func NewController(root outline.Node, opts ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Initialize(root); err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize replaces the outline and resets the expansion state to contain
// every node id. On a validation error the previous state is kept.
func (c *Controller) Initialize(root outline.Node) error {
	if err := outline.Validate(root); err != nil {
		return err
	}
	c.root = root
	c.expanded = FullyExpanded(root)
	return nil
}

// Root returns the current outline.
func (c *Controller) Root() outline.Node { return c.root }

// Expansion returns a copy of the current expansion state.
func (c *Controller) Expansion() Expansion { return c.expanded.Clone() }

// View lays out the current outline, or reports the empty state when the
// root has no children.
func (c *Controller) View() View {
	if c.root.IsEmpty() {
		return View{Empty: true}
	}
	return View{Graph: Layout(c.root, c.expanded)}
}

// HandleActivation toggles nodeID when hasChildren is set and leaves the state
// untouched otherwise. The clicked node is forwarded to the click handler in
// both cases.
func (c *Controller) HandleActivation(nodeID string, hasChildren bool) View {
	if hasChildren {
		c.expanded.Toggle(nodeID)
	}
	if c.onClick != nil {
		if n, ok := outline.Find(c.root, nodeID); ok {
			c.onClick(n)
		}
	}
	return c.View()
}

// Activate looks nodeID up in the current outline and handles the activation.
func (c *Controller) Activate(nodeID string) (View, error) {
	n, ok := outline.Find(c.root, nodeID)
	if !ok {
		return View{}, errs.New(errs.ErrCodeNodeNotFound, "node %q not found", nodeID)
	}
	return c.HandleActivation(n.ID, n.HasChildren()), nil
}
