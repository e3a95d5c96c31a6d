package state

// ClickEvent carries ownership of a single click. A control that handles
// the click marks it consumed; enclosing handlers check Consumed before
// acting, so a click on a nested control never also triggers its parent.
type ClickEvent struct {
	consumed bool
}

// Consume marks the click as handled.
func (c *ClickEvent) Consume() {
	c.consumed = true
}

// Consumed reports whether a nested control already handled the click.
func (c *ClickEvent) Consumed() bool {
	return c.consumed
}
