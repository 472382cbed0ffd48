package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/gocarina/gocsv"
)

// AdjustedPriceRepository is the file of daily prices for every instrument
type AdjustedPriceRepository interface {
	Add(ctx context.Context, prices []domain.PricePoint) error
	List(ctx context.Context) ([]domain.PricePoint, error)
}

type adjPriceRepositoryHandler struct {
	Path  string
	mutex *sync.Mutex
}

func NewAdjustedPriceRepository(path string) AdjustedPriceRepository {
	return adjPriceRepositoryHandler{
		Path:  path,
		mutex: &sync.Mutex{},
	}
}

type priceRow struct {
	Date         string  `csv:"date"`
	InstrumentID string  `csv:"instrument_id"`
	Price        float64 `csv:"price"`
}

func (h adjPriceRepositoryHandler) List(ctx context.Context) ([]domain.PricePoint, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.read()
}

// Add merges prices into the file. A price for an existing
// (instrument, date) pair replaces the stored one.
func (h adjPriceRepositoryHandler) Add(ctx context.Context, prices []domain.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	existing, err := h.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	type key struct {
		instrumentID string
		date         time.Time
	}
	merged := map[key]domain.PricePoint{}
	for _, p := range existing {
		merged[key{p.InstrumentID, p.Date}] = p
	}
	for _, p := range prices {
		p.Date = util.DateOnly(p.Date)
		merged[key{p.InstrumentID, p.Date}] = p
	}

	out := []domain.PricePoint{}
	for _, p := range merged {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InstrumentID != out[j].InstrumentID {
			return out[i].InstrumentID < out[j].InstrumentID
		}
		return out[i].Date.Before(out[j].Date)
	})

	rows := []priceRow{}
	for _, p := range out {
		rows = append(rows, priceRow{
			Date:         util.FormatDate(p.Date),
			InstrumentID: p.InstrumentID,
			Price:        p.Price,
		})
	}

	f, err := os.Create(h.Path)
	if err != nil {
		return fmt.Errorf("failed to create price file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write price file %s: %w", h.Path, err)
	}

	return nil
}

func (h adjPriceRepositoryHandler) read() ([]domain.PricePoint, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price file: %w", err)
	}
	defer f.Close()

	rows := []priceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse price file %s: %w", h.Path, err)
	}

	out := []domain.PricePoint{}
	for _, row := range rows {
		date, err := util.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price row for %s: %w", row.InstrumentID, err)
		}
		out = append(out, domain.PricePoint{
			InstrumentID: row.InstrumentID,
			Date:         date,
			Price:        row.Price,
		})
	}

	return out, nil
}
