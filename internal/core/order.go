package core

// ColumnOrder is the user-controlled ordering of selected columns plus the
// cursor that reorder operations target. It is mutated only by swapping an
// entry with its neighbour; any change to the selected set replaces it.
//
// A ColumnOrder is not safe for concurrent use. Sessions guard it.
type ColumnOrder struct {
	names  []string
	cursor string
}

// NewColumnOrder returns an order initialised from selected.
func NewColumnOrder(selected []string) *ColumnOrder {
	o := &ColumnOrder{}
	o.Initialize(selected)
	return o
}

// Initialize replaces the order with a copy of selected, discarding any
// manual reordering, and points the cursor at the first entry.
// Repeated names keep their first position.
func (o *ColumnOrder) Initialize(selected []string) {
	seen := make(map[string]bool, len(selected))
	o.names = make([]string, 0, len(selected))
	for _, name := range selected {
		if seen[name] {
			continue
		}
		seen[name] = true
		o.names = append(o.names, name)
	}

	o.cursor = ""
	if len(o.names) > 0 {
		o.cursor = o.names[0]
	}
}

// Sync re-initialises the order when the set of selected names differs from
// the current one. Comparison ignores order. Returns true if the order was
// replaced.
func (o *ColumnOrder) Sync(selected []string) bool {
	if sameSet(o.names, selected) {
		return false
	}
	o.Initialize(selected)
	return true
}

// Columns returns a copy of the current order.
func (o *ColumnOrder) Columns() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// Cursor returns the column currently targeted by reorder operations.
// It is empty only when the order is empty.
func (o *ColumnOrder) Cursor() string {
	return o.cursor
}

// Len returns the number of ordered columns.
func (o *ColumnOrder) Len() int {
	return len(o.names)
}

// Index returns the position of name, or -1.
func (o *ColumnOrder) Index(name string) int {
	for i, n := range o.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name is in the order.
func (o *ColumnOrder) Contains(name string) bool {
	return o.Index(name) >= 0
}

// Select points the cursor at name. Returns false if name is not in the order.
func (o *ColumnOrder) Select(name string) bool {
	if !o.Contains(name) {
		return false
	}
	o.cursor = name
	return true
}

// CanMoveUp reports whether MoveUp(name) would change the order.
func (o *ColumnOrder) CanMoveUp(name string) bool {
	return o.Index(name) > 0
}

// CanMoveDown reports whether MoveDown(name) would change the order.
func (o *ColumnOrder) CanMoveDown(name string) bool {
	i := o.Index(name)
	return i >= 0 && i < len(o.names)-1
}

// MoveUp swaps name with its predecessor and leaves the cursor on name.
// It is a no-op when name is already first or not in the order.
func (o *ColumnOrder) MoveUp(name string) bool {
	i := o.Index(name)
	if i < 0 {
		return false
	}
	o.cursor = name
	if i == 0 {
		return false
	}
	o.names[i-1], o.names[i] = o.names[i], o.names[i-1]
	return true
}

// MoveDown swaps name with its successor and leaves the cursor on name.
// It is a no-op when name is already last or not in the order.
func (o *ColumnOrder) MoveDown(name string) bool {
	i := o.Index(name)
	if i < 0 {
		return false
	}
	o.cursor = name
	if i == len(o.names)-1 {
		return false
	}
	o.names[i+1], o.names[i] = o.names[i], o.names[i+1]
	return true
}

func sameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[s] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		bs[s] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for s := range bs {
		if _, ok := as[s]; !ok {
			return false
		}
	}
	return true
}
