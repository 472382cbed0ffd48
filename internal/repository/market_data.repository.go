package repository

import (
	"context"
	"fmt"
	"time"

	"portfoliosim/internal/domain"
	"portfoliosim/internal/util"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// MarketDataRepository downloads daily price history from an external feed
type MarketDataRepository interface {
	GetHistory(ctx context.Context, instrumentID string, start, end time.Time) ([]domain.PricePoint, error)
}

type yahooRepositoryHandler struct{}

func NewYahooRepository() MarketDataRepository {
	return yahooRepositoryHandler{}
}

// GetHistory pulls daily adjusted closes from the Yahoo chart api. The instrument id
// is used as the ticker symbol.
func (h yahooRepositoryHandler) GetHistory(ctx context.Context, instrumentID string, start, end time.Time) ([]domain.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   instrumentID,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []domain.PricePoint{}
	for iter.Next() {
		bar := iter.Bar()
		price := bar.AdjClose.InexactFloat64()
		// yahoo pads halted days with empty bars
		if price <= 0 {
			continue
		}
		out = append(out, domain.PricePoint{
			InstrumentID: instrumentID,
			Date:         util.DateOnly(time.Unix(int64(bar.Timestamp), 0)),
			Price:        price,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", instrumentID, err)
	}

	return out, nil
}
