package api

import (
	"portfoliosim/internal/util"

	"github.com/gin-gonic/gin"
)

type InstrumentResponse struct {
	InstrumentID  string  `json:"instrumentID"`
	Manager       string  `json:"manager"`
	Name          string  `json:"name"`
	MinTicketSize float64 `json:"minTicketSize"`
	Surcharge     float64 `json:"surcharge"`
	Discount      float64 `json:"discount"`
	Fee           float64 `json:"fee"`
}

type ListInstrumentsResponse struct {
	Instruments []InstrumentResponse `json:"instruments"`
	FirstDate   *string              `json:"firstDate"`
	LastDate    *string              `json:"lastDate"`
}

func (m ApiHandler) listInstruments(c *gin.Context) {
	response := ListInstrumentsResponse{
		Instruments: []InstrumentResponse{},
	}
	for _, ref := range m.Store.References() {
		response.Instruments = append(response.Instruments, InstrumentResponse{
			InstrumentID:  ref.InstrumentID,
			Manager:       ref.Manager,
			Name:          ref.Name,
			MinTicketSize: ref.MinTicketSize,
			Surcharge:     ref.Surcharge,
			Discount:      ref.Discount,
			Fee:           ref.Fee,
		})
	}

	if start, end, err := m.Store.DateBounds(); err == nil {
		first := util.FormatDate(start)
		last := util.FormatDate(end)
		response.FirstDate = &first
		response.LastDate = &last
	}

	c.JSON(200, response)
}
