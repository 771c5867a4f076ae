package task

// List runs children sequentially, stopping on the first non-Success.
// Grounded on original_source/src/task/tasklist.rs.
type List struct {
	Children []*Runner
	current  int
}

// NewList builds a List over already-wrapped children.
func NewList(children ...*Runner) *List {
	return &List{Children: children}
}

func (l *List) Poll(ctx *Context) (Result, error) {
	result := Success(0)
	var err error
	for l.current < len(l.Children) {
		result, err = l.Children[l.current].Poll(ctx)
		if err != nil || result.Waiting {
			return result, err
		}
		l.current++
	}
	return result, nil
}
