package l3_service

import (
	"testing"

	"portfoliosim/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func score(id string, total2 float64) domain.ScoreRecord {
	return domain.ScoreRecord{InstrumentID: id, RiskAdjustedScore: total2}
}

func TestComputeTargetWeights(t *testing.T) {
	t.Run("weights proportional to score", func(t *testing.T) {
		targets, err := ComputeTargetWeights(
			[]domain.ScoreRecord{score("A", 2), score("B", 4)},
			SelectionOptions{TopThres: 5, MinThres: 1},
		)
		require.NoError(t, err)

		diff := cmp.Diff([]domain.TargetAllocation{
			{InstrumentID: "B", TargetWeight: 4.0 / 6.0, Score: 4},
			{InstrumentID: "A", TargetWeight: 2.0 / 6.0, Score: 2},
		}, targets, cmpopts.EquateApprox(0, 1e-12))
		require.Empty(t, diff)
	})

	t.Run("threshold is exclusive and top n applies", func(t *testing.T) {
		targets, err := ComputeTargetWeights(
			[]domain.ScoreRecord{score("A", 1), score("B", 1.2), score("C", 1.5), score("D", 1.1), score("E", 0.5)},
			SelectionOptions{TopThres: 2, MinThres: 1},
		)
		require.NoError(t, err)
		require.Len(t, targets, 2)
		require.Equal(t, "C", targets[0].InstrumentID)
		require.Equal(t, "B", targets[1].InstrumentID)
	})

	t.Run("ties break by instrument id", func(t *testing.T) {
		targets, err := ComputeTargetWeights(
			[]domain.ScoreRecord{score("Z", 2), score("M", 2), score("A", 2)},
			SelectionOptions{TopThres: 2, MinThres: 1},
		)
		require.NoError(t, err)
		require.Equal(t, "A", targets[0].InstrumentID)
		require.Equal(t, "M", targets[1].InstrumentID)
	})

	t.Run("nothing above threshold", func(t *testing.T) {
		targets, err := ComputeTargetWeights(
			[]domain.ScoreRecord{score("A", 0.9)},
			SelectionOptions{TopThres: 2, MinThres: 1},
		)
		require.NoError(t, err)
		require.Empty(t, targets)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := ComputeTargetWeights(nil, SelectionOptions{TopThres: 0, MinThres: 1})
		require.ErrorIs(t, err, domain.ErrConfiguration)
		_, err = ComputeTargetWeights(nil, SelectionOptions{TopThres: 1, MinThres: -1})
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
