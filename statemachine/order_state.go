package statemachine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hanahehe/restore/models"
)

// Actor names who triggers a transition
type Actor string

const (
	ActorVendor  Actor = "vendor"  // dashboard advance button
	ActorScanner Actor = "scanner" // verification token scan
)

// Transition is one permitted status change and the actor allowed to make it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

var transitions = []Transition{
	// Vendor moves the order exactly one step
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorVendor},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorVendor},
	{From: models.StatusReady, To: models.StatusPickedUp, Actor: ActorVendor},
	// A successful scan fulfils from any open state
	{From: models.StatusPending, To: models.StatusPickedUp, Actor: ActorScanner},
	{From: models.StatusPreparing, To: models.StatusPickedUp, Actor: ActorScanner},
	{From: models.StatusReady, To: models.StatusPickedUp, Actor: ActorScanner},
}

var allowed = make(map[Transition]struct{}, len(transitions))

var nextStatus = map[models.OrderStatus]models.OrderStatus{}

func init() {
	for _, t := range transitions {
		allowed[t] = struct{}{}
		if t.Actor == ActorVendor {
			nextStatus[t.From] = t.To
		}
	}
}

// Next is the vendor advance target. ok is false for terminal or unknown statuses.
func Next(status models.OrderStatus) (models.OrderStatus, bool) {
	next, ok := nextStatus[status]
	return next, ok
}

// ValidTransitionsFrom lists the distinct targets reachable from status by any actor
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var out []models.OrderStatus
	for _, t := range transitions {
		if t.From == status && !slices.Contains(out, t.To) {
			out = append(out, t.To)
		}
	}
	return out
}

// CanTransition reports a wrapped models.ErrInvalidTransition when actor may
// not move an order from one status to the other.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if _, ok := allowed[Transition{From: from, To: to, Actor: actor}]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for %s; valid transitions from %s are: %s",
		models.ErrInvalidTransition, from, to, actor, from, formatTargets(from))
}

func formatTargets(from models.OrderStatus) string {
	targets := ValidTransitionsFrom(from)
	if len(targets) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, 0, len(targets))
	for _, s := range targets {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns a copy of the table for the /api/state-machine endpoint
func GetAllTransitions() []Transition {
	return slices.Clone(transitions)
}
