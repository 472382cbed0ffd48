package l3_service

import (
	"fmt"
	"math"
	"sort"

	"portfoliosim/internal/domain"
)

type SelectionOptions struct {
	// number of instruments held at most
	TopThres int
	// scores at or below this are never selected
	MinThres float64
}

func (o SelectionOptions) Validate() error {
	if o.TopThres < 1 {
		return fmt.Errorf("top thres must be at least 1, got %d: %w", o.TopThres, domain.ErrConfiguration)
	}
	if o.MinThres < 0 || math.IsNaN(o.MinThres) {
		return fmt.Errorf("min thres must not be negative, got %f: %w", o.MinThres, domain.ErrConfiguration)
	}
	return nil
}

// ComputeTargetWeights picks the top scoring instruments above the threshold
// and weights them in proportion to their score. Ties rank by instrument id.
// No allocations are returned when nothing clears the threshold.
func ComputeTargetWeights(scores []domain.ScoreRecord, opts SelectionOptions) ([]domain.TargetAllocation, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	selected := topNScores(scores, opts)
	out := []domain.TargetAllocation{}
	for _, s := range selected {
		out = append(out, domain.TargetAllocation{
			InstrumentID: s.InstrumentID,
			Score:        s.RiskAdjustedScore,
		})
	}

	return normalizeByScore(out)
}

func topNScores(scores []domain.ScoreRecord, opts SelectionOptions) []domain.ScoreRecord {
	candidates := []domain.ScoreRecord{}
	for _, s := range scores {
		if math.IsNaN(s.RiskAdjustedScore) || math.IsInf(s.RiskAdjustedScore, 0) {
			continue
		}
		if s.RiskAdjustedScore > opts.MinThres {
			candidates = append(candidates, s)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].RiskAdjustedScore != candidates[j].RiskAdjustedScore {
			return candidates[i].RiskAdjustedScore > candidates[j].RiskAdjustedScore
		}
		return candidates[i].InstrumentID < candidates[j].InstrumentID
	})

	if len(candidates) > opts.TopThres {
		candidates = candidates[:opts.TopThres]
	}
	return candidates
}

// normalizeByScore sets each weight to score / sum of scores
func normalizeByScore(allocations []domain.TargetAllocation) ([]domain.TargetAllocation, error) {
	if len(allocations) == 0 {
		return allocations, nil
	}

	total := 0.0
	for _, a := range allocations {
		total += a.Score
	}
	if !(total > 0) {
		return nil, fmt.Errorf("cannot weight allocations with score sum %f: %w", total, domain.ErrConfiguration)
	}

	sum := 0.0
	for i := range allocations {
		allocations[i].TargetWeight = allocations[i].Score / total
		sum += allocations[i].TargetWeight
	}
	if math.Abs(sum-1) > 1e-6 {
		return nil, fmt.Errorf("target weights should sum to 1, got %f", sum)
	}

	return allocations, nil
}
