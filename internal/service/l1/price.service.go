package l1_service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	"portfoliosim/internal/repository"
	"portfoliosim/internal/util"
)

// MarketView is what trades need to know about the market on one date
type MarketView interface {
	AsOf() time.Time
	Reference(instrumentID string) (domain.InstrumentRef, bool)
	Price(instrumentID string) (float64, bool)
}

// PriceHistoryStore holds the reference table and the full, date ordered
// price series of every instrument. It is immutable once built.
type PriceHistoryStore struct {
	references    map[string]domain.InstrumentRef
	instrumentIDs []string
	series        map[string][]domain.PricePoint
	minDate       time.Time
	maxDate       time.Time
}

func NewPriceHistoryStore(refs []domain.InstrumentRef, prices []domain.PricePoint) (*PriceHistoryStore, error) {
	store := &PriceHistoryStore{
		references:    map[string]domain.InstrumentRef{},
		instrumentIDs: []string{},
		series:        map[string][]domain.PricePoint{},
	}

	for _, ref := range refs {
		if err := validateReference(ref); err != nil {
			return nil, err
		}
		if _, ok := store.references[ref.InstrumentID]; ok {
			return nil, fmt.Errorf("duplicate instrument %s in reference data: %w", ref.InstrumentID, domain.ErrConfiguration)
		}
		store.references[ref.InstrumentID] = ref
		store.instrumentIDs = append(store.instrumentIDs, ref.InstrumentID)
	}
	sort.Strings(store.instrumentIDs)

	for _, p := range prices {
		if _, ok := store.references[p.InstrumentID]; !ok {
			return nil, fmt.Errorf("price for unknown instrument %s: %w", p.InstrumentID, domain.ErrConfiguration)
		}
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
			return nil, fmt.Errorf("invalid price %f for %s on %s: %w", p.Price, p.InstrumentID, util.FormatDate(p.Date), domain.ErrConfiguration)
		}
		p.Date = util.DateOnly(p.Date)
		store.series[p.InstrumentID] = append(store.series[p.InstrumentID], p)

		if store.minDate.IsZero() || p.Date.Before(store.minDate) {
			store.minDate = p.Date
		}
		if p.Date.After(store.maxDate) {
			store.maxDate = p.Date
		}
	}

	for id, s := range store.series {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Date.Before(s[j].Date)
		})
		for i := 1; i < len(s); i++ {
			if s[i].Date.Equal(s[i-1].Date) {
				return nil, fmt.Errorf("duplicate price for %s on %s: %w", id, util.FormatDate(s[i].Date), domain.ErrConfiguration)
			}
		}
	}

	return store, nil
}

func validateReference(ref domain.InstrumentRef) error {
	if ref.InstrumentID == "" {
		return fmt.Errorf("reference row without instrument id: %w", domain.ErrConfiguration)
	}
	if ref.MinTicketSize < 0 || math.IsNaN(ref.MinTicketSize) {
		return fmt.Errorf("invalid min ticket size %f for %s: %w", ref.MinTicketSize, ref.InstrumentID, domain.ErrConfiguration)
	}
	if ref.Surcharge < 0 || math.IsNaN(ref.Surcharge) {
		return fmt.Errorf("invalid surcharge %f for %s: %w", ref.Surcharge, ref.InstrumentID, domain.ErrConfiguration)
	}
	if ref.Discount < 0 || ref.Discount >= 1 || math.IsNaN(ref.Discount) {
		return fmt.Errorf("invalid discount %f for %s: %w", ref.Discount, ref.InstrumentID, domain.ErrConfiguration)
	}
	if ref.Fee < 0 || ref.Fee >= 1 || math.IsNaN(ref.Fee) {
		return fmt.Errorf("invalid fee %f for %s: %w", ref.Fee, ref.InstrumentID, domain.ErrConfiguration)
	}
	return nil
}

// DateBounds returns the earliest and latest price date over all instruments
func (s *PriceHistoryStore) DateBounds() (time.Time, time.Time, error) {
	if s.minDate.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("no price history loaded: %w", domain.ErrConfiguration)
	}
	return s.minDate, s.maxDate, nil
}

// References returns the reference table ordered by instrument id
func (s *PriceHistoryStore) References() []domain.InstrumentRef {
	out := []domain.InstrumentRef{}
	for _, id := range s.instrumentIDs {
		out = append(out, s.references[id])
	}
	return out
}

func (s *PriceHistoryStore) Reference(instrumentID string) (domain.InstrumentRef, bool) {
	ref, ok := s.references[instrumentID]
	return ref, ok
}

// View builds the as-of snapshot. Instruments without a price on or before
// asOf are left out of both the snapshot and the eligible list.
func (s *PriceHistoryStore) View(asOf time.Time) PriceView {
	asOf = util.DateOnly(asOf)
	v := PriceView{
		asOf:     asOf,
		store:    s,
		prices:   map[string]float64{},
		cutoffs:  map[string]int{},
		eligible: []string{},
	}

	for _, id := range s.instrumentIDs {
		series := s.series[id]
		n := sort.Search(len(series), func(i int) bool {
			return series[i].Date.After(asOf)
		})
		if n == 0 {
			continue
		}
		v.prices[id] = series[n-1].Price
		v.cutoffs[id] = n
		v.eligible = append(v.eligible, id)
	}

	return v
}

// PriceView is the market as seen on one date
type PriceView struct {
	asOf     time.Time
	store    *PriceHistoryStore
	prices   map[string]float64
	cutoffs  map[string]int
	eligible []string
}

func (v PriceView) AsOf() time.Time {
	return v.asOf
}

func (v PriceView) Reference(instrumentID string) (domain.InstrumentRef, bool) {
	if v.store == nil {
		return domain.InstrumentRef{}, false
	}
	return v.store.Reference(instrumentID)
}

func (v PriceView) Price(instrumentID string) (float64, bool) {
	price, ok := v.prices[instrumentID]
	return price, ok
}

// Snapshot returns a copy of the latest known price per eligible instrument
func (v PriceView) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(v.prices))
	for id, price := range v.prices {
		out[id] = price
	}
	return out
}

// Eligible lists instruments with at least one price, sorted by id
func (v PriceView) Eligible() []string {
	return append([]string{}, v.eligible...)
}

// History returns the price series of instrumentID up to and including the
// view date. The slice aliases store memory and must not be modified.
func (v PriceView) History(instrumentID string) []domain.PricePoint {
	n, ok := v.cutoffs[instrumentID]
	if !ok {
		return nil
	}
	return v.store.series[instrumentID][:n:n]
}

type PriceService interface {
	LoadPriceHistory(ctx context.Context) (*PriceHistoryStore, error)
	IngestPrices(ctx context.Context, start, end time.Time) error
}

type priceServiceHandler struct {
	ReferenceRepository  repository.ReferenceRepository
	AdjPriceRepository   repository.AdjustedPriceRepository
	MarketDataRepository repository.MarketDataRepository
	NumWorkers           int
}

func NewPriceService(
	referenceRepository repository.ReferenceRepository,
	adjPriceRepository repository.AdjustedPriceRepository,
	marketDataRepository repository.MarketDataRepository,
) PriceService {
	return priceServiceHandler{
		ReferenceRepository:  referenceRepository,
		AdjPriceRepository:   adjPriceRepository,
		MarketDataRepository: marketDataRepository,
		NumWorkers:           10,
	}
}

// LoadPriceHistory reads the reference and price files into a store. Prices
// of instruments missing from the reference table are dropped.
func (h priceServiceHandler) LoadPriceHistory(ctx context.Context) (*PriceHistoryStore, error) {
	log := logger.FromContext(ctx)

	refs, err := h.ReferenceRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	prices, err := h.AdjPriceRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	known := map[string]bool{}
	for _, ref := range refs {
		known[ref.InstrumentID] = true
	}
	filtered := []domain.PricePoint{}
	orphans := map[string]int{}
	for _, p := range prices {
		if !known[p.InstrumentID] {
			orphans[p.InstrumentID]++
			continue
		}
		filtered = append(filtered, p)
	}
	for id, n := range orphans {
		log.Warnf("dropping %d prices for %s: not in reference data", n, id)
	}

	store, err := NewPriceHistoryStore(refs, filtered)
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		if len(store.series[ref.InstrumentID]) == 0 {
			log.Warnf("no price history for %s", ref.InstrumentID)
		}
	}

	return store, nil
}

// IngestPrices downloads prices for every reference instrument and merges
// them into the price file. Instruments that fail to download are skipped.
func (h priceServiceHandler) IngestPrices(ctx context.Context, start, end time.Time) error {
	log := logger.FromContext(ctx)

	refs, err := h.ReferenceRepository.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no instruments in reference data")
	}

	numWorkers := h.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	inputCh := make(chan string, len(refs))
	for _, ref := range refs {
		inputCh <- ref.InstrumentID
	}
	close(inputCh)

	var mutex sync.Mutex
	var wg sync.WaitGroup
	prices := []domain.PricePoint{}
	failed := 0

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case instrumentID, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := h.MarketDataRepository.GetHistory(ctx, instrumentID, start, end)
					mutex.Lock()
					if err != nil {
						log.Warnf("failed to ingest prices for %s: %s", instrumentID, err.Error())
						failed++
					} else {
						prices = append(prices, result...)
					}
					mutex.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed == len(refs) {
		return fmt.Errorf("failed to ingest prices for all %d instruments", failed)
	}

	if err := h.AdjPriceRepository.Add(ctx, prices); err != nil {
		return fmt.Errorf("failed to save ingested prices: %w", err)
	}
	log.Infof("ingested %d prices for %d instruments", len(prices), len(refs)-failed)

	return nil
}
