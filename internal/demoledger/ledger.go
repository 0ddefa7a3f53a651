// Package demoledger is a small persistent actor used to exercise the
// actor and persistence packages end to end: a per-account balance ledger
// recovered from a sqlite-backed journal, driven entirely through
// cmd/lutetiumctl.
package demoledger

import (
	"encoding/json"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/lutetium/internal/baselib/actor"
	"github.com/roasbeef/lutetium/persistence"
)

// Version is the persistence schema version this actor's events and
// snapshots are recorded under.
const Version persistence.Version = "v1"

const (
	registryKeyDeposited = "deposited"
	registryKeyWithdrawn = "withdrawn"
	registryKeySnapshot  = "balances"
)

// Ledger is the recoverable state of the demo actor: a balance per account.
type Ledger struct {
	Balances map[string]int64
}

// NewLedger returns an empty Ledger, suitable as both the initial state and
// the spawn_with_recovery seed for a fresh actor.
func NewLedger() *Ledger {
	return &Ledger{Balances: make(map[string]int64)}
}

type depositedEvent struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type withdrawnEvent struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// Mapping builds the RecoveryMapping for Ledger, wiring the journal/
// snapshot registry keys this actor persists under to resolvers that
// replay them against a *Ledger.
func Mapping() *persistence.RecoveryMapping[*Ledger] {
	mapping := persistence.NewRecoveryMapping[*Ledger]()

	mapping.RegisterJournal(registryKeyDeposited,
		func(l *Ledger, payload persistence.JournalPayload) error {
			var evt depositedEvent
			if err := json.Unmarshal(payload.Bytes, &evt); err != nil {
				return fmt.Errorf("decoding deposited event: %w", err)
			}
			l.Balances[evt.Account] += evt.Amount
			return nil
		})

	mapping.RegisterJournal(registryKeyWithdrawn,
		func(l *Ledger, payload persistence.JournalPayload) error {
			var evt withdrawnEvent
			if err := json.Unmarshal(payload.Bytes, &evt); err != nil {
				return fmt.Errorf("decoding withdrawn event: %w", err)
			}
			l.Balances[evt.Account] -= evt.Amount
			return nil
		})

	mapping.RegisterSnapshot(registryKeySnapshot,
		func(l *Ledger, payload persistence.SnapShotPayload) error {
			balances := make(map[string]int64)
			if err := json.Unmarshal(payload.Bytes, &balances); err != nil {
				return fmt.Errorf("decoding balance snapshot: %w", err)
			}
			l.Balances = balances
			return nil
		})

	return mapping
}

// Deposit credits amount to account, persisting a "deposited" event.
type Deposit struct {
	actor.BaseMessage

	Account string
	Amount  int64
}

// MessageType implements actor.Message.
func (Deposit) MessageType() string { return "deposit" }

// Withdraw debits amount from account, persisting a "withdrawn" event.
// Fails without persisting anything if the account's balance is
// insufficient.
type Withdraw struct {
	actor.BaseMessage

	Account string
	Amount  int64
}

// MessageType implements actor.Message.
func (Withdraw) MessageType() string { return "withdraw" }

// Balance reports an account's current balance without mutating anything.
type Balance struct {
	actor.BaseMessage

	Account string
}

// MessageType implements actor.Message.
func (Balance) MessageType() string { return "balance" }

// Snapshot writes a point-in-time snapshot of every account balance.
type Snapshot struct {
	actor.BaseMessage
}

// MessageType implements actor.Message.
func (Snapshot) MessageType() string { return "snapshot" }

// Message is the sealed union of requests Behavior understands.
type Message interface {
	actor.Message
	isLedgerMessage()
}

func (Deposit) isLedgerMessage()  {}
func (Withdraw) isLedgerMessage() {}
func (Balance) isLedgerMessage()  {}
func (Snapshot) isLedgerMessage() {}

// Reply is the result every Message resolves to: the account balance the
// request concerned, or the zero value for a Snapshot.
type Reply struct {
	Account string
	Balance int64
}

// ErrInsufficientBalance is returned by Withdraw when an account's balance
// would go negative.
var ErrInsufficientBalance = fmt.Errorf("insufficient balance")

// Behavior is the PersistentBehavior implementing the ledger's message
// handling against its recovered Ledger state.
type Behavior struct {
	persistence.NoRecoveryHooks

	state *Ledger
}

// NewBehavior builds a Behavior operating on state, the same value passed
// as the recovery target and seed to persistence.SpawnWithRecovery.
func NewBehavior(state *Ledger) *Behavior {
	return &Behavior{state: state}
}

// Receive implements persistence.PersistentBehavior.
func (b *Behavior) Receive(ctx *persistence.PersistentContext,
	msg Message) fn.Result[Reply] {

	switch m := msg.(type) {
	case Deposit:
		return b.deposit(ctx, m)

	case Withdraw:
		return b.withdraw(ctx, m)

	case Balance:
		return fn.Ok(Reply{
			Account: m.Account,
			Balance: b.state.Balances[m.Account],
		})

	case Snapshot:
		return b.snapshot(ctx)

	default:
		return fn.Err[Reply](fmt.Errorf("unhandled ledger message %T", msg))
	}
}

func (b *Behavior) deposit(ctx *persistence.PersistentContext,
	m Deposit) fn.Result[Reply] {

	bytes, err := json.Marshal(depositedEvent{
		Account: m.Account, Amount: m.Amount,
	})
	if err != nil {
		return fn.Err[Reply](err)
	}

	if err := ctx.Persist(ctx.Context, registryKeyDeposited, bytes); err != nil {
		return fn.Err[Reply](err)
	}

	b.state.Balances[m.Account] += m.Amount

	return fn.Ok(Reply{Account: m.Account, Balance: b.state.Balances[m.Account]})
}

func (b *Behavior) withdraw(ctx *persistence.PersistentContext,
	m Withdraw) fn.Result[Reply] {

	if b.state.Balances[m.Account] < m.Amount {
		return fn.Err[Reply](fmt.Errorf("%w: account %s has %d, requested %d",
			ErrInsufficientBalance, m.Account,
			b.state.Balances[m.Account], m.Amount))
	}

	bytes, err := json.Marshal(withdrawnEvent{
		Account: m.Account, Amount: m.Amount,
	})
	if err != nil {
		return fn.Err[Reply](err)
	}

	if err := ctx.Persist(ctx.Context, registryKeyWithdrawn, bytes); err != nil {
		return fn.Err[Reply](err)
	}

	b.state.Balances[m.Account] -= m.Amount

	return fn.Ok(Reply{Account: m.Account, Balance: b.state.Balances[m.Account]})
}

func (b *Behavior) snapshot(ctx *persistence.PersistentContext) fn.Result[Reply] {
	bytes, err := json.Marshal(b.state.Balances)
	if err != nil {
		return fn.Err[Reply](err)
	}

	if err := ctx.Snapshot(ctx.Context, registryKeySnapshot, bytes); err != nil {
		return fn.Err[Reply](err)
	}

	return fn.Ok(Reply{})
}
