package l2_service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/util"

	"github.com/montanaflynn/stats"
)

type ScoringOptions struct {
	// forward return horizon, in observations
	HorizonDays       int
	MinHistDays       int
	MinLookbackDays   int
	DecayHalfLifeDays float64
	RiskPower         float64
	// instruments scored concurrently; 1 or less scores serially
	Workers int
}

func (o ScoringOptions) Validate() error {
	if o.HorizonDays < 1 {
		return fmt.Errorf("horizon days must be positive, got %d: %w", o.HorizonDays, domain.ErrConfiguration)
	}
	if o.MinHistDays < 0 || o.MinLookbackDays < 0 {
		return fmt.Errorf("min history and lookback days must not be negative: %w", domain.ErrConfiguration)
	}
	if o.MinHistDays+o.MinLookbackDays < 1 {
		return fmt.Errorf("min history plus lookback days must be positive: %w", domain.ErrConfiguration)
	}
	if !(o.DecayHalfLifeDays > 0) || math.IsInf(o.DecayHalfLifeDays, 0) {
		return fmt.Errorf("decay half life must be positive, got %f: %w", o.DecayHalfLifeDays, domain.ErrConfiguration)
	}
	if math.IsNaN(o.RiskPower) || math.IsInf(o.RiskPower, 0) {
		return fmt.Errorf("invalid risk power %f: %w", o.RiskPower, domain.ErrConfiguration)
	}
	return nil
}

// MinObservations is the history length an instrument needs to be scored
func (o ScoringOptions) MinObservations() int {
	return o.MinHistDays + o.MinLookbackDays
}

type Forecast struct {
	MeanReturn float64
	Dispersion float64
}

// ForecastReturn estimates the forward return of one price series. It returns
// nil when the series is too short to score.
func ForecastReturn(history []domain.PricePoint, opts ScoringOptions) (*Forecast, error) {
	n := len(history)
	minObs := opts.MinObservations()
	if n < minObs {
		return nil, nil
	}

	first := max(0, (n-1)-2*minObs)
	last := n - 1 - opts.HorizonDays
	if last < first {
		return nil, nil
	}

	count := last - first + 1
	lnReturns := make([]float64, 0, count)
	dates := make([]time.Time, 0, count)
	dateMax := history[first].Date
	for i := first; i <= last; i++ {
		r := history[i+opts.HorizonDays].Price / history[i].Price
		lnReturns = append(lnReturns, math.Log(r))
		dates = append(dates, history[i].Date)
		if history[i].Date.After(dateMax) {
			dateMax = history[i].Date
		}
	}

	weights := make([]float64, count)
	weightSum := 0.0
	for i, d := range dates {
		age := util.DaysBetween(d, dateMax)
		weights[i] = math.Pow(0.5, age/opts.DecayHalfLifeDays)
		weightSum += weights[i]
	}
	if weightSum == 0 || math.IsNaN(weightSum) || math.IsInf(weightSum, 0) {
		return nil, fmt.Errorf("degenerate sample weights (sum %f): %w", weightSum, domain.ErrConfiguration)
	}

	// geometric mean taken in log space so long series cannot overflow
	lnGeoMean, err := stats.Mean(lnReturns)
	if err != nil {
		return nil, fmt.Errorf("failed to compute geometric mean: %w", err)
	}

	weightedLn := 0.0
	weightedSq := 0.0
	for i, lr := range lnReturns {
		w := weights[i] / weightSum
		weightedLn += w * lr
		dif := lr - lnGeoMean
		weightedSq += w * dif * dif
	}

	return &Forecast{
		MeanReturn: math.Exp(weightedLn),
		Dispersion: math.Exp(math.Sqrt(weightedSq)),
	}, nil
}

// ScoreInstrument turns a forecast into a cost and risk adjusted score. It
// returns nil for instruments without enough history.
func ScoreInstrument(ref domain.InstrumentRef, history []domain.PricePoint, date time.Time, opts ScoringOptions) (*domain.ScoreRecord, error) {
	forecast, err := ForecastReturn(history, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to score %s: %w", ref.InstrumentID, err)
	}
	if forecast == nil {
		return nil, nil
	}

	mean := forecast.MeanReturn * (1 - ref.Fee)
	total1 := mean / (1 + ref.Surcharge) * (1 - ref.Discount)
	total2 := total1 / math.Pow(forecast.Dispersion, opts.RiskPower)

	return &domain.ScoreRecord{
		InstrumentID:       ref.InstrumentID,
		Date:               date,
		ForecastMeanReturn: mean,
		ForecastDispersion: forecast.Dispersion,
		CostAdjustedReturn: total1,
		RiskAdjustedScore:  total2,
	}, nil
}

// HistoryView is the slice of market data scoring reads
type HistoryView interface {
	AsOf() time.Time
	Eligible() []string
	Reference(instrumentID string) (domain.InstrumentRef, bool)
	History(instrumentID string) []domain.PricePoint
}

type ScoringService interface {
	ScoreAll(ctx context.Context, view HistoryView) ([]domain.ScoreRecord, error)
}

type scoringServiceHandler struct {
	Options ScoringOptions
}

func NewScoringService(opts ScoringOptions) (ScoringService, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return scoringServiceHandler{Options: opts}, nil
}

// ScoreAll scores every eligible instrument of the view. Records come back
// ordered by instrument id whatever the worker count.
func (h scoringServiceHandler) ScoreAll(ctx context.Context, view HistoryView) ([]domain.ScoreRecord, error) {
	log := logger.FromContext(ctx)
	date := view.AsOf()
	ids := view.Eligible()

	results := make([]*domain.ScoreRecord, len(ids))
	errs := make([]error, len(ids))

	score := func(i int) {
		ref, ok := view.Reference(ids[i])
		if !ok {
			errs[i] = fmt.Errorf("failed to score %s: %w", ids[i], domain.ErrReferenceNotFound)
			return
		}
		results[i], errs[i] = ScoreInstrument(ref, view.History(ids[i]), date, h.Options)
	}

	if h.Options.Workers <= 1 {
		for i := range ids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score(i)
		}
	} else {
		inputCh := make(chan int, len(ids))
		for i := range ids {
			inputCh <- i
		}
		close(inputCh)

		var wg sync.WaitGroup
		for w := 0; w < h.Options.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-ctx.Done():
						return
					case i, ok := <-inputCh:
						if !ok {
							return
						}
						score(i)
					}
				}
			}()
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	out := []domain.ScoreRecord{}
	for i := range ids {
		if errs[i] != nil {
			return nil, errs[i]
		}
		if results[i] != nil {
			out = append(out, *results[i])
		}
	}
	if skipped := len(ids) - len(out); skipped > 0 {
		log.Debugf("%s: %d of %d instruments lack history to score", util.FormatDate(date), skipped, len(ids))
	}

	return out, nil
}
