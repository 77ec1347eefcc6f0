package progress

// Reporter receives events during a run. Close is called once when the
// run ends, whether by completion, interrupt, or failure.
type Reporter interface {
	Event(Event)
	Close()
}

// NullReporter discards every event; the engine and the coder node fall
// back to it when no Reporter is configured.
type NullReporter struct{}

func (NullReporter) Event(Event) {}
func (NullReporter) Close()      {}

// MultiReporter fans events out to several Reporters, e.g. the console
// reporter plus a session.log writer.
type MultiReporter struct {
	reporters []Reporter
}

// NewMultiReporter combines several reporters into one.
func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

func (m *MultiReporter) Event(e Event) {
	for _, r := range m.reporters {
		r.Event(e)
	}
}

func (m *MultiReporter) Close() {
	for _, r := range m.reporters {
		r.Close()
	}
}
