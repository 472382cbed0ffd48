package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"portfoliosim/internal/domain"

	"github.com/gocarina/gocsv"
)

type ReferenceRepository interface {
	List(ctx context.Context) ([]domain.InstrumentRef, error)
}

type referenceRepositoryHandler struct {
	Path string
}

func NewReferenceRepository(path string) ReferenceRepository {
	return referenceRepositoryHandler{Path: path}
}

type referenceRow struct {
	InstrumentID string  `csv:"instrument_id"`
	Manager      string  `csv:"manager"`
	Name         string  `csv:"name"`
	MinSum       float64 `csv:"min_sum"`
	Surcharge    float64 `csv:"surcharge"`
	Discount     float64 `csv:"discount"`
	Fee          float64 `csv:"fee"`
}

// List returns reference rows in file order
func (h referenceRepositoryHandler) List(ctx context.Context) ([]domain.InstrumentRef, error) {
	f, err := os.Open(h.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	rows := []referenceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse reference file %s: %w", h.Path, err)
	}

	out := []domain.InstrumentRef{}
	for _, row := range rows {
		out = append(out, domain.InstrumentRef{
			InstrumentID:  strings.TrimSpace(row.InstrumentID),
			Manager:       row.Manager,
			Name:          row.Name,
			MinTicketSize: row.MinSum,
			Surcharge:     row.Surcharge,
			Discount:      row.Discount,
			Fee:           row.Fee,
		})
	}

	return out, nil
}
