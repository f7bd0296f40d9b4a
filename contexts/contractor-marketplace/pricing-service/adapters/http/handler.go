package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"planora/contexts/contractor-marketplace/pricing-service/application"
	domainerrors "planora/contexts/contractor-marketplace/pricing-service/domain/errors"
	"planora/contexts/contractor-marketplace/pricing-service/ports"
	httptransport "planora/contexts/contractor-marketplace/pricing-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ResolveQuoteHandler(
	ctx context.Context,
	req httptransport.ResolveQuoteRequest,
) (httptransport.ResolveQuoteResponse, error) {
	input := ports.ResolveQuoteInput{
		ServiceType: req.ServiceType,
		Seasonal:    req.Seasonal,
	}

	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			return httptransport.ResolveQuoteResponse{}, domainerrors.ErrInvalidInput
		}
		input.Location = &ports.Location{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			Address:   req.Address,
		}
	}

	if req.EventDate != "" {
		date, err := time.Parse(time.RFC3339, req.EventDate)
		if err != nil {
			date, err = time.Parse("2006-01-02", req.EventDate)
			if err != nil {
				return httptransport.ResolveQuoteResponse{}, domainerrors.ErrInvalidInput
			}
		}
		input.EventDate = date
	}

	quote, err := h.Service.ResolveQuote(ctx, input)
	if err != nil {
		return httptransport.ResolveQuoteResponse{}, err
	}
	return httptransport.ResolveQuoteResponse{
		Status: "success",
		Data:   toDTO(quote),
	}, nil
}

func toDTO(quote ports.PricingQuote) httptransport.PricingQuoteDTO {
	dto := httptransport.PricingQuoteDTO{
		ServiceType:     quote.ServiceType,
		BaseBand:        bandDTO(quote.BaseBand),
		LocationBand:    bandDTO(quote.LocationBand),
		SeasonalBand:    bandDTO(quote.SeasonalBand),
		Confidence:      quote.Confidence,
		ContractorCount: quote.ContractorCount,
		FreshAt:         quote.FreshAt.UTC().Format(time.RFC3339),
	}
	if quote.RealTimeBand != nil {
		band := bandDTO(*quote.RealTimeBand)
		dto.RealTimeBand = &band
	}
	return dto
}

func bandDTO(band ports.PriceBand) httptransport.PriceBandDTO {
	return httptransport.PriceBandDTO{
		Min: band.Min.StringFixed(2),
		Max: band.Max.StringFixed(2),
	}
}
