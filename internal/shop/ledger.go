package shop

import (
	"errors"
	"slices"
	"sync"

	"duckhub/internal/jsonstore"

	"go.uber.org/zap"
)

var (
	ErrValidation        = errors.New("invalid point amount")
	ErrUnknownItem       = errors.New("unknown item")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrInsufficientFunds = errors.New("insufficient points")
)

type Inventory struct {
	Points int      `json:"points"`
	Items  []string `json:"items"`
}

// Ledger tracks each session's point balance and owned items, persisted as a
// single JSON document. Purchase and grant mutations run under one mutex, so
// a purchase either fully deducts-and-adds or does nothing.
type Ledger struct {
	mu     sync.Mutex
	bySess map[string]*Inventory
	file   *jsonstore.File
	logger *zap.SugaredLogger
}

func NewLedger(file *jsonstore.File, logger *zap.SugaredLogger) *Ledger {
	l := &Ledger{
		bySess: make(map[string]*Inventory),
		file:   file,
		logger: logger,
	}
	if err := file.Load(&l.bySess); err != nil {
		logger.Warnw("loading inventory store", "error", err)
		l.bySess = make(map[string]*Inventory)
	}
	if l.bySess == nil {
		l.bySess = make(map[string]*Inventory)
	}
	return l
}

// Inventory returns the session's balance and items, zero-valued for unknown
// sessions.
func (l *Ledger) Inventory(sessionID string) Inventory {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot(sessionID)
}

// GrantPoints adds amount to the session's balance. Amount must be positive.
func (l *Ledger) GrantPoints(sessionID string, amount int) (Inventory, error) {
	if amount <= 0 {
		return Inventory{}, ErrValidation
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	inv := l.get(sessionID)
	inv.Points += amount
	l.save()
	return l.snapshot(sessionID), nil
}

// Purchase deducts the item's price and adds it to the session's inventory.
// Guards run in order: the item must exist, must not already be owned, and
// the balance must cover the price.
func (l *Ledger) Purchase(sessionID, itemID string) (Inventory, error) {
	item := Find(itemID)
	if item == nil {
		return Inventory{}, ErrUnknownItem
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	inv := l.get(sessionID)
	if slices.Contains(inv.Items, itemID) {
		return Inventory{}, ErrAlreadyOwned
	}
	if inv.Points < item.Price {
		return Inventory{}, ErrInsufficientFunds
	}

	inv.Points -= item.Price
	inv.Items = append(inv.Items, itemID)
	l.save()
	return l.snapshot(sessionID), nil
}

func (l *Ledger) get(sessionID string) *Inventory {
	inv, ok := l.bySess[sessionID]
	if !ok {
		inv = &Inventory{Items: []string{}}
		l.bySess[sessionID] = inv
	}
	return inv
}

func (l *Ledger) snapshot(sessionID string) Inventory {
	inv, ok := l.bySess[sessionID]
	if !ok {
		return Inventory{Items: []string{}}
	}
	out := Inventory{Points: inv.Points, Items: make([]string, len(inv.Items))}
	copy(out.Items, inv.Items)
	return out
}

func (l *Ledger) save() {
	if err := l.file.Save(l.bySess); err != nil {
		l.logger.Errorw("saving inventory store", "error", err)
	}
}
