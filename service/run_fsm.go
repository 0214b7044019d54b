package service

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"sentinel-portal/models"
)

// State constants stay untyped so they convert to statekit.StateID
const (
	stateIdle    = "idle"
	stateRunning = "running"
	stateDone    = "done"
	stateError   = "error"
)

func init() {
	for state, status := range map[string]models.RunStatus{
		stateIdle:    models.RunStatusIdle,
		stateRunning: models.RunStatusRunning,
		stateDone:    models.RunStatusDone,
		stateError:   models.RunStatusError,
	} {
		if state != string(status) {
			panic(fmt.Sprintf("run state %q does not match RunStatus %q", state, status))
		}
	}
}

// Run events
const (
	EventStart   = "start"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// RunContext carries the run being tracked
type RunContext struct {
	RunID string
}

// RunStateMachine enforces idle -> running -> done|error.
// A finished run may be started again; nothing else moves it.
type RunStateMachine struct {
	interpreter *statekit.Interpreter[RunContext]
}

// NewRunStateMachine builds a machine resting in the idle state
func NewRunStateMachine(runID string) (*RunStateMachine, error) {
	builder := statekit.NewMachine[RunContext]("run-machine").
		WithInitial(stateIdle).
		WithContext(RunContext{RunID: runID})

	builder.State(stateIdle).
		On(EventStart).Target(stateRunning).
		Done()

	builder.State(stateRunning).
		On(EventSucceed).Target(stateDone).
		On(EventFail).Target(stateError).
		Done()

	builder.State(stateDone).
		On(EventStart).Target(stateRunning).
		Done()

	builder.State(stateError).
		On(EventStart).Target(stateRunning).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &RunStateMachine{interpreter: interpreter}, nil
}

// Transition sends event and reports an error when the state did not move
func (sm *RunStateMachine) Transition(event string) error {
	before := sm.Status()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Status() != before {
		return nil
	}
	return fmt.Errorf("%w: %q while %s", ErrInvalidTransition, event, before)
}

// Status is the current state
func (sm *RunStateMachine) Status() models.RunStatus {
	return models.RunStatus(sm.interpreter.State().Value)
}
