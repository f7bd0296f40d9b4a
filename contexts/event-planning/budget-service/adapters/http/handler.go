package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"planora/contexts/event-planning/budget-service/application"
	"planora/contexts/event-planning/budget-service/domain/entities"
	domainerrors "planora/contexts/event-planning/budget-service/domain/errors"
	"planora/contexts/event-planning/budget-service/ports"
	httptransport "planora/contexts/event-planning/budget-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListPackagesHandler(
	ctx context.Context,
	req httptransport.ListPackagesRequest,
) (httptransport.ListPackagesResponse, error) {
	list, err := h.Service.ListPackages(ctx, ports.ListPackagesInput{
		EventType:  req.EventType,
		Categories: req.Categories,
	})
	if err != nil {
		return httptransport.ListPackagesResponse{}, err
	}

	resp := httptransport.ListPackagesResponse{
		Status:       "success",
		Data:         make([]httptransport.PackageOfferDTO, 0, len(list.Offers)),
		TotalSavings: list.TotalSavings.StringFixed(2),
	}
	for _, offer := range list.Offers {
		resp.Data = append(resp.Data, httptransport.PackageOfferDTO{
			PackageID:       offer.Package.PackageID,
			EventType:       offer.Package.EventType,
			Name:            offer.Package.Name,
			BasePrice:       offer.Package.BasePrice.StringFixed(2),
			DiscountPercent: offer.Package.DiscountPercent.StringFixed(2),
			Categories:      offer.Package.Categories,
			DiscountAmount:  offer.DiscountAmount.StringFixed(2),
			FinalPrice:      offer.FinalPrice.StringFixed(2),
			Savings:         offer.Savings.StringFixed(2),
		})
	}
	return resp, nil
}

// ApplyPackageHandler returns a populated response alongside
// ErrPartialApply so the platform edge can surface per-step flags on a
// partial failure instead of a bare error body.
func (h Handler) ApplyPackageHandler(
	ctx context.Context,
	actorID string,
	eventID string,
	idempotencyKey string,
	req httptransport.ApplyPackageRequest,
) (httptransport.ApplyPackageResponse, error) {
	result, replayed, err := h.Service.ApplyPackage(ctx, idempotencyKey, ports.ApplyPackageInput{
		EventID:   eventID,
		PackageID: req.PackageID,
		ActorID:   actorID,
	})
	if err != nil && result.Success {
		resp := toApplyResponse(result, replayed)
		resp.Status = "partial_failure"
		return resp, err
	}
	if err != nil {
		return httptransport.ApplyPackageResponse{}, err
	}
	return toApplyResponse(result, replayed), nil
}

func (h Handler) GetBreakdownHandler(
	ctx context.Context,
	actorID string,
	req httptransport.GetBreakdownRequest,
) (httptransport.BreakdownResponse, error) {
	view, err := h.Service.GetBreakdown(ctx, ports.GetBreakdownInput{
		EventID:    req.EventID,
		ActorID:    actorID,
		Categories: req.Categories,
	})
	if err != nil {
		return httptransport.BreakdownResponse{}, err
	}

	resp := httptransport.BreakdownResponse{
		Status: "success",
		Data:   make([]httptransport.BreakdownEntryDTO, 0, len(view.Entries)),
		Total:  view.Total.StringFixed(2),
	}
	for _, entry := range view.Entries {
		resp.Data = append(resp.Data, httptransport.BreakdownEntryDTO{
			ServiceCategory:  entry.ServiceCategory,
			EstimatedCost:    entry.EstimatedCost.StringFixed(2),
			PackageApplied:   entry.PackageApplied,
			AppliedPackageID: entry.AppliedPackageID,
		})
	}
	return resp, nil
}

func (h Handler) ApplyAdjustmentsHandler(
	ctx context.Context,
	actorID string,
	eventID string,
	req httptransport.ApplyAdjustmentsRequest,
) (httptransport.BreakdownResponse, error) {
	adjustments := make([]entities.BudgetAdjustment, 0, len(req.Adjustments))
	for _, dto := range req.Adjustments {
		value, err := decimal.NewFromString(dto.Value)
		if err != nil {
			return httptransport.BreakdownResponse{}, domainerrors.ErrInvalidInput
		}
		adjustments = append(adjustments, entities.BudgetAdjustment{
			ServiceCategory: dto.ServiceCategory,
			Type:            entities.AdjustmentType(dto.Type),
			Value:           value,
			Reason:          dto.Reason,
		})
	}

	result, err := h.Service.ApplyAdjustments(ctx, ports.ApplyAdjustmentsInput{
		EventID:     eventID,
		ActorID:     actorID,
		Adjustments: adjustments,
	})
	if err != nil {
		return httptransport.BreakdownResponse{}, err
	}

	resp := httptransport.BreakdownResponse{
		Status: "success",
		Data:   make([]httptransport.BreakdownEntryDTO, 0, len(result.Entries)),
		Total:  result.Total.StringFixed(2),
	}
	for _, item := range result.Entries {
		resp.Data = append(resp.Data, httptransport.BreakdownEntryDTO{
			ServiceCategory:  item.Entry.ServiceCategory,
			EstimatedCost:    item.Entry.EstimatedCost.StringFixed(2),
			PackageApplied:   item.Entry.PackageApplied,
			AppliedPackageID: item.Entry.AppliedPackageID,
			Created:          item.Created,
			Clamped:          item.Clamped,
		})
	}
	return resp, nil
}

func toApplyResponse(result ports.ApplyPackageResult, replayed bool) httptransport.ApplyPackageResponse {
	dto := httptransport.AppliedPackageDTO{
		EventID:         result.Applied.EventID,
		PackageID:       result.Applied.PackageID,
		Name:            result.Package.Name,
		EventType:       result.Package.EventType,
		BasePrice:       result.Package.BasePrice.StringFixed(2),
		DiscountPercent: result.Package.DiscountPercent.StringFixed(2),
		Categories:      result.Package.Categories,
		AppliedAt:       result.Applied.AppliedAt.UTC().Format(time.RFC3339),
	}
	if result.EventUpdated {
		dto.NewBudgetTotal = result.NewBudgetTotal.StringFixed(2)
	}
	return httptransport.ApplyPackageResponse{
		Status:        "success",
		Replayed:      replayed,
		Success:       result.Success,
		EventUpdated:  result.EventUpdated,
		BudgetUpdated: result.BudgetUpdated,
		Data:          dto,
	}
}
