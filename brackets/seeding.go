package brackets

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// Seed orders participants by requested rank (ties and unranked participants
// by registration order) and places them into bracket slots. Slots without a
// participant are byes, and byes always face the top seeds.
func Seed(participants []models.Participant) (models.Seeding, error) {
	return SeedWith(participants, models.SeedingStrict, nil)
}

// SeedWith seeds participants with the given method. Random seeding shuffles
// the ranked list with rng, or with the package source when rng is nil; the
// slot placement is the same for both methods.
func SeedWith(participants []models.Participant, method models.SeedingMethod, rng *rand.Rand) (models.Seeding, error) {
	n := len(participants)
	if n < 2 {
		return models.Seeding{}, ErrInsufficientParticipants
	}

	ranked := make([]models.Participant, n)
	copy(ranked, participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Seed, ranked[j].Seed
		if si != sj {
			// unranked (0) goes last
			if si == 0 {
				return false
			}
			if sj == 0 {
				return true
			}
			return si < sj
		}
		return ranked[i].RegistrationOrder < ranked[j].RegistrationOrder
	})

	switch method {
	case "", models.SeedingStrict:
	case models.SeedingRandom:
		swap := func(i, j int) { ranked[i], ranked[j] = ranked[j], ranked[i] }
		if rng != nil {
			rng.Shuffle(n, swap)
		} else {
			rand.Shuffle(n, swap)
		}
	default:
		return models.Seeding{}, fmt.Errorf("%w: %q", ErrUnsupportedSeedingMethod, method)
	}

	size := bracketSize(n)
	slots := make([]string, size)
	for i, seed := range seedOrder(size) {
		if seed <= n {
			slots[i] = ranked[seed-1].ID
		}
	}

	return models.Seeding{Size: size, Slots: slots}, nil
}

// bracketSize returns the smallest power of two >= n.
func bracketSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// rounds returns log2(size).
func rounds(size int) int {
	r := 0
	for s := size; s > 1; s >>= 1 {
		r++
	}
	return r
}

// seedOrder returns the seed number placed in each slot, e.g. 1 8 4 5 2 7 3 6
// for 8 slots. Adjacent slots meet in round one and always sum to size+1.
func seedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		sum := len(order)*2 + 1
		for _, seed := range order {
			next = append(next, seed, sum-seed)
		}
		order = next
	}
	return order
}
