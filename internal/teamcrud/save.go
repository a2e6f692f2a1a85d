package teamcrud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/daap14/repoteams/internal/client"
	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// MsgCreateFailed is shown when the create request fails.
const MsgCreateFailed = "Failed to create team"

// ErrSaveInFlight is returned when Save is called while another save is running.
// No request is issued and nothing is shown to the user.
var ErrSaveInFlight = errors.New("save already in flight")

// TxState is the state of the save transaction.
type TxState int

const (
	StateIdle TxState = iota
	StateValidating
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s TxState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInFlight:
		return "in-flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("TxState(%d)", int(s))
}

// Refresher resynchronizes local state after a successful create.
type Refresher interface {
	FetchTeams(ctx context.Context) error
}

// SaveOrchestrator drives the create team transaction. The state field is the
// only lock: a Save arriving while another is validating or in flight is
// rejected. The outcome is recorded and the lock released as soon as the
// create request returns, before the callback and the refetch run.
//
//	Idle -> Validating -> Idle (invalid)
//	                   -> InFlight -> Idle (outcome Succeeded | Failed)
type SaveOrchestrator struct {
	api      TeamCreator
	store    Refresher
	org      team.Organization
	provider team.Provider
	notifier notify.Notifier

	mu    sync.Mutex
	state TxState
	last  TxState
}

// NewSaveOrchestrator creates a SaveOrchestrator. store may be nil when no
// refetch is wanted after a create.
func NewSaveOrchestrator(api TeamCreator, store Refresher, org team.Organization, provider team.Provider, n notify.Notifier) *SaveOrchestrator {
	if n == nil {
		n = notify.Discard
	}
	return &SaveOrchestrator{
		api:      api,
		store:    store,
		org:      org,
		provider: provider,
		notifier: n,
	}
}

// Save validates d and creates the team. On success callback (if any)
// receives the created team and the store is refetched once. On failure the
// user is notified and the error returned; nothing is retried. The state is
// back to StateIdle before the callback runs.
func (o *SaveOrchestrator) Save(ctx context.Context, d Draft, callback func(*team.Team)) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrSaveInFlight
	}
	o.state = StateValidating
	o.mu.Unlock()

	if verr := Validate(d); verr != nil {
		o.setState(StateIdle)
		o.notifier.Notify(verr.Message(), notify.SeverityError, notify.DefaultDuration)
		return verr
	}

	req := client.CreateTeamRequest{
		OrgID:    o.org.ID,
		TeamName: d.Name,
		OrgRepos: d.Payload(o.org.Name),
		Provider: o.provider,
	}

	o.setState(StateInFlight)
	created, err := o.api.CreateTeam(ctx, req)
	if err != nil {
		o.finish(StateFailed)
		slog.Error("failed to create team", "error", err, "team", d.Name, "orgId", o.org.ID)
		o.notifier.Notify(MsgCreateFailed, notify.SeverityError, notify.DefaultDuration)
		return fmt.Errorf("creating team %q: %w", d.Name, err)
	}

	o.finish(StateSucceeded)
	slog.Info("team created", "teamId", created.ID, "team", created.Name, "repos", d.Len())

	if callback != nil {
		callback(created)
	}
	if o.store != nil {
		if err := o.store.FetchTeams(ctx); err != nil {
			slog.Warn("refetch after create failed", "error", err)
		}
	}
	return nil
}

// State returns the current transaction state.
func (o *SaveOrchestrator) State() TxState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InFlight reports whether a save is running.
func (o *SaveOrchestrator) InFlight() bool {
	return o.State() != StateIdle
}

// LastOutcome returns StateSucceeded or StateFailed for the last save that
// reached the network, or StateIdle when none has.
func (o *SaveOrchestrator) LastOutcome() TxState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func (o *SaveOrchestrator) setState(s TxState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// finish records the outcome of the create request and releases the lock.
func (o *SaveOrchestrator) finish(outcome TxState) {
	o.mu.Lock()
	o.state = StateIdle
	o.last = outcome
	o.mu.Unlock()
}
