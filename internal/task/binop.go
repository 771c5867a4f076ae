package task

// BinOp short-circuits an `&&`/`||` pair: And skips the right side once
// left fails, Or skips it once left succeeds. Grounded on
// original_source/src/task/binop.rs.
type BinOp struct {
	And   bool
	Left  *Runner
	Right *Runner
}

func NewAnd(left, right *Runner) *BinOp { return &BinOp{And: true, Left: left, Right: right} }
func NewOr(left, right *Runner) *BinOp  { return &BinOp{And: false, Left: left, Right: right} }

func (t *BinOp) Poll(ctx *Context) (Result, error) {
	left, err := t.Left.Poll(ctx)
	if err != nil {
		return Result{}, err
	}
	if left.Waiting {
		return Wait, nil
	}
	if t.And && left.Code != 0 {
		return Success(left.Code), nil
	}
	if !t.And && left.Code == 0 {
		return Success(0), nil
	}
	return t.Right.Poll(ctx)
}

// Not inverts its child's 0/nonzero exit code, the way a double negative
// flips in spec.md's supplemented AndOr grammar. Grounded on
// original_source/src/task/not.rs.
type Not struct {
	Child *Runner
}

func NewNot(child *Runner) *Not { return &Not{Child: child} }

func (t *Not) Poll(ctx *Context) (Result, error) {
	r, err := t.Child.Poll(ctx)
	if err != nil {
		return Result{}, err
	}
	if r.Waiting {
		return Wait, nil
	}
	if r.Code == 0 {
		return Success(1), nil
	}
	return Success(0), nil
}
