// Package progress defines the typed event stream emitted by the
// orchestrator and coder agent during a run, and a console reporter that
// renders it for interactive use.
package progress

import "time"

// EventType discriminates the kinds of events a Reporter receives.
type EventType int

const (
	EventStageChange EventType = iota
	EventNodeStart
	EventNodeComplete
	EventInterrupt
	EventWorkerStart
	EventWorkerComplete
	EventIteration
	EventError
)

// Event is anything a Reporter can render.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

type base struct {
	ts time.Time
}

func (b base) Timestamp() time.Time { return b.ts }

// StageChangeEvent announces a session's Stage transition.
type StageChangeEvent struct {
	base
	SessionID string
	From, To  string
}

func (StageChangeEvent) Type() EventType { return EventStageChange }

func NewStageChangeEvent(sessionID, from, to string) StageChangeEvent {
	return StageChangeEvent{base: base{ts: time.Now()}, SessionID: sessionID, From: from, To: to}
}

// NodeStartEvent announces a node beginning execution.
type NodeStartEvent struct {
	base
	SessionID string
	Node      string
}

func (NodeStartEvent) Type() EventType { return EventNodeStart }

func NewNodeStartEvent(sessionID, node string) NodeStartEvent {
	return NodeStartEvent{base: base{ts: time.Now()}, SessionID: sessionID, Node: node}
}

// NodeCompleteEvent announces a node finishing, successfully or not.
type NodeCompleteEvent struct {
	base
	SessionID string
	Node      string
	Success   bool
	Err       error
}

func (NodeCompleteEvent) Type() EventType { return EventNodeComplete }

func NewNodeCompleteEvent(sessionID, node string, success bool, err error) NodeCompleteEvent {
	return NodeCompleteEvent{base: base{ts: time.Now()}, SessionID: sessionID, Node: node, Success: success, Err: err}
}

// InterruptEvent announces execution halting before a node for human
// review.
type InterruptEvent struct {
	base
	SessionID  string
	BeforeNode string
}

func (InterruptEvent) Type() EventType { return EventInterrupt }

func NewInterruptEvent(sessionID, beforeNode string) InterruptEvent {
	return InterruptEvent{base: base{ts: time.Now()}, SessionID: sessionID, BeforeNode: beforeNode}
}

// WorkerStartEvent announces the CLI worker adapter spawning a child
// process for a task.
type WorkerStartEvent struct {
	base
	SessionID string
	TaskID    string
}

func (WorkerStartEvent) Type() EventType { return EventWorkerStart }

func NewWorkerStartEvent(sessionID, taskID string) WorkerStartEvent {
	return WorkerStartEvent{base: base{ts: time.Now()}, SessionID: sessionID, TaskID: taskID}
}

// WorkerCompleteEvent announces the CLI worker adapter's classified
// outcome for a task.
type WorkerCompleteEvent struct {
	base
	SessionID string
	TaskID    string
	Success   bool
	Reason    string
	Elapsed   time.Duration
}

func (WorkerCompleteEvent) Type() EventType { return EventWorkerComplete }

func NewWorkerCompleteEvent(sessionID, taskID string, success bool, reason string, elapsed time.Duration) WorkerCompleteEvent {
	return WorkerCompleteEvent{base: base{ts: time.Now()}, SessionID: sessionID, TaskID: taskID, Success: success, Reason: reason, Elapsed: elapsed}
}

// IterationEvent announces the coder loop's iteration counter advancing.
type IterationEvent struct {
	base
	SessionID string
	Count     int
	Max       int
}

func (IterationEvent) Type() EventType { return EventIteration }

func NewIterationEvent(sessionID string, count, max int) IterationEvent {
	return IterationEvent{base: base{ts: time.Now()}, SessionID: sessionID, Count: count, Max: max}
}

// ErrorEvent announces a node-local failure after the orchestrator has
// recorded it in state and written the checkpoint.
type ErrorEvent struct {
	base
	SessionID string
	Kind      string
	Err       error
}

func (ErrorEvent) Type() EventType { return EventError }

func NewErrorEvent(sessionID, kind string, err error) ErrorEvent {
	return ErrorEvent{base: base{ts: time.Now()}, SessionID: sessionID, Kind: kind, Err: err}
}
