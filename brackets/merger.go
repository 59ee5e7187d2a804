package brackets

import (
	"fmt"
	"sync"

	"github.com/Dosada05/bracket-engine/models"
)

// DropPosition is where a winner-tree loser lands.
type DropPosition struct {
	Side  models.BracketSide
	Round int
	Index int
	Slot  int
}

// DoubleEliminationMerger routes winner-tree losers into the loser tree and
// applies the grand final / bracket reset rule.
type DoubleEliminationMerger struct {
	policy models.RematchPolicy
}

func NewDoubleEliminationMerger(policy models.RematchPolicy) *DoubleEliminationMerger {
	if policy == "" {
		policy = models.RematchMinimize
	}
	return &DoubleEliminationMerger{policy: policy}
}

// DropPosition computes the landing spot for the loser of winner-tree match
// (winnerRound, index) in a bracket of the given size. Round one losers pair
// up in loser round one; later losers take the fresh-drop slot of an even
// loser round, facing that round's survivors.
func (d *DoubleEliminationMerger) DropPosition(size, winnerRound, index int) (DropPosition, error) {
	k := rounds(size)
	if winnerRound < 1 || winnerRound > k || index < 0 || index >= size>>winnerRound {
		return DropPosition{}, fmt.Errorf("%w: no drop for winner round %d match %d in a bracket of %d", ErrRoutingInvariantViolation, winnerRound, index, size)
	}
	if k == 1 {
		return DropPosition{Side: models.SideGrandFinal, Round: 1, Index: 0, Slot: 1}, nil
	}
	if winnerRound == 1 {
		return DropPosition{Side: models.SideLosers, Round: 1, Index: index / 2, Slot: index % 2}, nil
	}
	order := d.dropOrder(size, winnerRound)
	return DropPosition{Side: models.SideLosers, Round: 2 * (winnerRound - 1), Index: order[index], Slot: 1}, nil
}

// DropTarget resolves the drop position of a winner-tree match to a slot of b.
func (d *DoubleEliminationMerger) DropTarget(b *models.Bracket, m *models.Match) (models.SlotRef, error) {
	if m.Side != models.SideWinners {
		return models.SlotRef{}, fmt.Errorf("%w: match %d is not in the winner tree", ErrRoutingInvariantViolation, m.ID)
	}
	pos, err := d.DropPosition(b.Seeding.Size, m.Round, m.Index)
	if err != nil {
		return models.SlotRef{}, err
	}
	target, ok := findMatch(b, pos.Side, pos.Round, pos.Index)
	if !ok {
		return models.SlotRef{}, fmt.Errorf("%w: match %d drops into missing %s round %d match %d", ErrRoutingInvariantViolation, m.ID, pos.Side, pos.Round, pos.Index)
	}
	return models.SlotRef{MatchID: target.ID, Slot: pos.Slot}, nil
}

// route returns the slot the loser of m must fill, checking it still waits on m.
func (d *DoubleEliminationMerger) route(b *models.Bracket, m *models.Match) (models.SlotRef, error) {
	ref, err := d.DropTarget(b, m)
	if err != nil {
		return models.SlotRef{}, err
	}
	t, _ := b.Match(ref.MatchID)
	s := t.Slots[ref.Slot]
	if s.Kind != models.SlotPending || s.Source == nil || s.Source.MatchID != m.ID || s.Source.Outcome != models.SourceLoser {
		return models.SlotRef{}, fmt.Errorf("%w: slot %d of match %d does not wait for the loser of match %d", ErrRoutingInvariantViolation, ref.Slot, ref.MatchID, m.ID)
	}
	return ref, nil
}

// needsReset reports whether the grand final result forces a bracket reset:
// the loser-tree champion won and the winner-tree champion can still play.
func (d *DoubleEliminationMerger) needsReset(b *models.Bracket, gf *models.Match, winnerSlot int) bool {
	if gf.Side != models.SideGrandFinal || winnerSlot != 1 || gf.Forfeit {
		return false
	}
	loser, ok := gf.Slots[0].Occupant()
	return ok && !isDisqualified(b, loser)
}

// createReset appends the bracket reset match, ready to play. Pointers into
// b.Matches are invalidated.
func (d *DoubleEliminationMerger) createReset(b *models.Bracket, grandFinalID int) int {
	gf := b.Matches[grandFinalID-1]
	id := addMatch(b, models.SideBracketReset, 1, 0)
	reset := &b.Matches[id-1]
	reset.Slots[0] = models.Slot{
		Kind:          models.SlotParticipant,
		ParticipantID: gf.Slots[0].ParticipantID,
		Source:        &models.SlotSource{MatchID: grandFinalID, Outcome: models.SourceLoser},
	}
	reset.Slots[1] = models.Slot{
		Kind:          models.SlotParticipant,
		ParticipantID: gf.Slots[1].ParticipantID,
		Source:        &models.SlotSource{MatchID: grandFinalID, Outcome: models.SourceWinner},
	}
	reset.State = models.MatchReadyToPlay
	return id
}

func findMatch(b *models.Bracket, side models.BracketSide, round, index int) (*models.Match, bool) {
	for i := range b.Matches {
		m := &b.Matches[i]
		if m.Side == side && m.Round == round && m.Index == index {
			return m, true
		}
	}
	return nil, false
}

type dropOrderKey struct {
	size   int
	policy models.RematchPolicy
}

var dropOrders sync.Map // dropOrderKey -> map[int][]int

// dropOrder returns, for each match of winner round w >= 2, the index of the
// loser-round match its loser drops into.
func (d *DoubleEliminationMerger) dropOrder(size, w int) []int {
	key := dropOrderKey{size: size, policy: d.policy}
	if cached, ok := dropOrders.Load(key); ok {
		return cached.(map[int][]int)[w]
	}
	orders := computeDropOrders(size, d.policy)
	dropOrders.Store(key, orders)
	return orders[w]
}

type winnerMatch struct {
	round int
	index int
}

// computeDropOrders picks an ordering for every drop round. feeds[t] holds the
// winner-tree matches whose losers may be sitting in survivor slot t of the
// loser round being filled; a drop from winner match j risks a rematch with
// every such loser that came out of j's subtree.
func computeDropOrders(size int, policy models.RematchPolicy) map[int][]int {
	k := rounds(size)
	orders := make(map[int][]int, k)
	if k < 2 {
		return orders
	}

	feeds := make([][]winnerMatch, size>>2)
	for i := range feeds {
		feeds[i] = []winnerMatch{{1, 2 * i}, {1, 2*i + 1}}
	}

	for w := 2; w <= k; w++ {
		n := size >> w
		order := chooseDropOrder(n, w, feeds, policy)
		orders[w] = order

		for j, t := range order {
			feeds[t] = append(feeds[t], winnerMatch{w, j})
		}
		if w < k {
			next := make([][]winnerMatch, n/2)
			for i := range next {
				merged := make([]winnerMatch, 0, len(feeds[2*i])+len(feeds[2*i+1]))
				merged = append(merged, feeds[2*i]...)
				next[i] = append(merged, feeds[2*i+1]...)
			}
			feeds = next
		}
	}
	return orders
}

func chooseDropOrder(n, w int, feeds [][]winnerMatch, policy models.RematchPolicy) []int {
	identity := make([]int, n)
	for j := range identity {
		identity[j] = j
	}
	if policy == models.RematchAllow || n == 1 {
		return identity
	}

	reverse := make([]int, n)
	halfSwap := make([]int, n)
	reversedHalfSwap := make([]int, n)
	for j := 0; j < n; j++ {
		reverse[j] = n - 1 - j
		halfSwap[j] = (j + n/2) % n
		reversedHalfSwap[j] = n - 1 - halfSwap[j]
	}

	best, bestCost := identity, -1
	for _, candidate := range [][]int{reverse, halfSwap, reversedHalfSwap, identity} {
		cost := 0
		for j, t := range candidate {
			cost += rematchRisk(w, j, feeds[t])
		}
		if bestCost < 0 || cost < bestCost {
			best, bestCost = candidate, cost
		}
	}
	return best
}

// rematchRisk counts the matches in feeds that the loser of winner match
// (w, j) may already have played in.
func rematchRisk(w, j int, feeds []winnerMatch) int {
	risk := 0
	for _, f := range feeds {
		if f.round < w && f.index>>(w-f.round) == j {
			risk++
		}
	}
	return risk
}
