package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

const totalPoints = 100

var (
	// ErrValidation covers empty or malformed calculator input.
	ErrValidation = errors.New("invalid scoring input")

	// ErrZeroTotal is returned when every adjusted conversion rate is zero.
	ErrZeroTotal = errors.New("total adjusted conversion rate is zero")
)

// ChannelRecord is one marketing channel's observed performance.
type ChannelRecord struct {
	Name           string  `json:"name" yaml:"name"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
	PaymentAmount  float64 `json:"payment_amount" yaml:"payment_amount"`
}

// WeightResult is the scored output for a single channel.
type WeightResult struct {
	Name           string  `json:"name" yaml:"name"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
	PaymentAmount  float64 `json:"payment_amount" yaml:"payment_amount"`
	Score          int     `json:"score" yaml:"score"`
	Rationale      string  `json:"rationale" yaml:"rationale"`
}

// Options tunes the weight calculation.
type Options struct {
	// MinWeight is the guaranteed score floor applied after raw computation.
	MinWeight int `json:"min_weight,omitempty" yaml:"min_weight,omitempty"`

	// Exclude drops the named channels before any computation.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Boosts multiplies a channel's conversion rate before normalization.
	Boosts map[string]float64 `json:"boosts,omitempty" yaml:"boosts,omitempty"`
}

// CalculateWeights normalizes each channel's conversion rate into a 0-100
// weight score. Scores always sum to exactly 100. The result is sorted by
// score descending, ties broken by input order. The computation is pure:
// identical input and options yield identical output.
func CalculateWeights(records []ChannelRecord, opts Options) ([]WeightResult, error) {
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		excluded[name] = true
	}

	kept := make([]ChannelRecord, 0, len(records))
	for _, r := range records {
		if !excluded[r.Name] {
			kept = append(kept, r)
		}
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no channels to score", ErrValidation)
	}
	if opts.MinWeight < 0 {
		return nil, fmt.Errorf("%w: min weight %d must not be negative", ErrValidation, opts.MinWeight)
	}
	if opts.MinWeight*len(kept) > totalPoints {
		return nil, fmt.Errorf("%w: min weight %d is infeasible for %d channels", ErrValidation, opts.MinWeight, len(kept))
	}

	adjusted := make([]float64, len(kept))
	boosted := make([]bool, len(kept))
	var total float64
	for i, r := range kept {
		if r.ConversionRate < 0 {
			return nil, fmt.Errorf("%w: channel %q has negative conversion rate %v", ErrValidation, r.Name, r.ConversionRate)
		}
		factor := 1.0
		if b, ok := opts.Boosts[r.Name]; ok {
			if b <= 0 {
				return nil, fmt.Errorf("%w: channel %q has non-positive boost factor %v", ErrValidation, r.Name, b)
			}
			factor = b
			boosted[i] = b != 1.0
		}
		adjusted[i] = r.ConversionRate * factor
		total += adjusted[i]
	}
	if total == 0 {
		return nil, ErrZeroTotal
	}

	scores := make([]int, len(kept))
	for i := range kept {
		scores[i] = int(math.Round(adjusted[i] / total * totalPoints))
	}

	floored := applyFloor(scores, opts.MinWeight)
	settleDrift(scores, adjusted, opts.MinWeight)

	results := make([]WeightResult, len(kept))
	for i, r := range kept {
		results[i] = WeightResult{
			Name:           r.Name,
			ConversionRate: r.ConversionRate,
			PaymentAmount:  r.PaymentAmount,
			Score:          scores[i],
			Rationale:      rationale(i, adjusted, boosted[i], floored[i]),
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results, nil
}

// applyFloor raises every sub-floor score to the floor and deducts the
// created deficit from above-floor channels, proportionally to their surplus
// over the floor. Largest-remainder apportionment keeps the deduction in
// whole points, and no donor is ever pushed below the floor. Returns which
// channels were raised.
func applyFloor(scores []int, floor int) []bool {
	raised := make([]bool, len(scores))
	if floor <= 0 {
		return raised
	}

	deficit := 0
	surplusTotal := 0
	for _, s := range scores {
		if s < floor {
			deficit += floor - s
		} else {
			surplusTotal += s - floor
		}
	}

	for i, s := range scores {
		if s < floor {
			scores[i] = floor
			raised[i] = true
		}
	}
	if deficit == 0 || surplusTotal == 0 {
		return raised
	}
	if deficit > surplusTotal {
		// Not enough surplus to pay the full deficit. Take what exists; the
		// drift settlement restores the 100-point total.
		deficit = surplusTotal
	}

	type donor struct {
		idx  int
		take int
		frac float64
	}
	donors := make([]donor, 0, len(scores))
	taken := 0
	for i, s := range scores {
		if raised[i] {
			continue
		}
		surplus := s - floor
		if surplus == 0 {
			continue
		}
		share := float64(deficit) * float64(surplus) / float64(surplusTotal)
		take := int(share)
		if take > surplus {
			take = surplus
		}
		donors = append(donors, donor{idx: i, take: take, frac: share - float64(take)})
		taken += take
	}

	// Distribute the remaining whole points by largest fractional share.
	sort.SliceStable(donors, func(a, b int) bool {
		return donors[a].frac > donors[b].frac
	})
	for taken < deficit {
		progressed := false
		for j := range donors {
			if taken == deficit {
				break
			}
			d := &donors[j]
			if scores[d.idx]-floor-d.take > 0 {
				d.take++
				taken++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	for _, d := range donors {
		scores[d.idx] -= d.take
	}
	return raised
}

// settleDrift forces the score sum to exactly 100 by adjusting the channel
// with the highest adjusted rate. A deduction never crosses the floor; any
// residual rolls over to the next-highest channel.
func settleDrift(scores []int, adjusted []float64, floor int) {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	diff := totalPoints - sum
	if diff == 0 {
		return
	}

	order := make([]int, len(adjusted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return adjusted[order[a]] > adjusted[order[b]]
	})

	if diff > 0 {
		scores[order[0]] += diff
		return
	}
	for _, i := range order {
		if diff == 0 {
			return
		}
		room := scores[i] - floor
		if room <= 0 {
			continue
		}
		take := -diff
		if take > room {
			take = room
		}
		scores[i] -= take
		diff += take
	}
}
