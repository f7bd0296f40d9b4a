package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	pricinghttp "planora/contexts/contractor-marketplace/pricing-service/transport/http"
)

func TestResolveQuoteEndpoint(t *testing.T) {
	server := newTestServer()
	server.pricing.Store.SeedBand("catering", decimal.NewFromInt(100), decimal.NewFromInt(200))
	server.pricing.Store.SeedMarket("catering", 8, decimal.NewFromInt(180))

	req := httptest.NewRequest(http.MethodGet, "/v1/pricing/quote?service_type=catering", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp pricinghttp.ResolveQuoteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.BaseBand.Min != "100.00" || resp.Data.BaseBand.Max != "200.00" {
		t.Fatalf("unexpected base band %+v", resp.Data.BaseBand)
	}
	if resp.Data.RealTimeBand == nil {
		t.Fatalf("expected real-time band with market data")
	}
	if resp.Data.RealTimeBand.Min != "140.00" || resp.Data.RealTimeBand.Max != "190.00" {
		t.Fatalf("unexpected blended band %+v", resp.Data.RealTimeBand)
	}
	if resp.Data.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9, got %v", resp.Data.Confidence)
	}
	if resp.Data.ContractorCount != 8 {
		t.Fatalf("expected contractor count 8, got %d", resp.Data.ContractorCount)
	}
}

func TestResolveQuoteLowConfidenceWithoutMarketData(t *testing.T) {
	server := newTestServer()
	server.pricing.Store.SeedBand("photography", decimal.NewFromInt(80), decimal.NewFromInt(160))

	req := httptest.NewRequest(http.MethodGet, "/v1/pricing/quote?service_type=photography", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp pricinghttp.ResolveQuoteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.RealTimeBand != nil {
		t.Fatalf("expected no real-time band without contractors")
	}
	if resp.Data.Confidence != 0.7 {
		t.Fatalf("expected confidence 0.7, got %v", resp.Data.Confidence)
	}
}

func TestResolveQuoteUnknownServiceTypeIs404(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/v1/pricing/quote?service_type=juggling", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestResolveQuoteValidatesCoordinates(t *testing.T) {
	server := newTestServer()
	server.pricing.Store.SeedBand("catering", decimal.NewFromInt(100), decimal.NewFromInt(200))

	req := httptest.NewRequest(http.MethodGet, "/v1/pricing/quote?service_type=catering&lat=abc", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad lat, got %d body=%s", rr.Code, rr.Body.String())
	}

	// A single coordinate is not a usable location.
	req = httptest.NewRequest(http.MethodGet, "/v1/pricing/quote?service_type=catering&lat=10.5", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for lat without lng, got %d body=%s", rr.Code, rr.Body.String())
	}
}
