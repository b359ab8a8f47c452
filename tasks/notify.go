package tasks

// Notify is the completion-notification step appended to the end of a
// dispatch chain: it fires its callback once and succeeds. The dispatcher
// uses it to learn that a chain reached its final step.
type Notify struct {
	base
	fn func()
}

func NewNotify(fn func()) *Notify {
	return &Notify{fn: fn}
}

func (t *Notify) Init(ctx *Context) { t.begin(ctx) }

func (t *Notify) Tick() {
	if t.status != StatusRunning {
		return
	}
	if t.fn != nil {
		t.fn()
	}
	t.succeed()
}
