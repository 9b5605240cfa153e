// internal/api/handlers/simulation_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/andresuchdata/stocksim/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// OverrideRequest is the wire form of a scenario override; demand overrides
// are keyed by YYYY-MM-DD date strings.
type OverrideRequest struct {
	SupplierID        string         `json:"supplier_id"`
	EOQ               *int           `json:"eoq"`
	ReorderPoint      *int           `json:"reorder_point"`
	SafetyStock       *int           `json:"safety_stock"`
	AnnualHoldingRate *float64       `json:"annual_holding_rate"`
	StockoutPenalty   *float64       `json:"stockout_penalty"`
	DemandOverrides   map[string]int `json:"demand_overrides"`
}

type RunRequest struct {
	ProductID string           `json:"product_id" binding:"required"`
	StartDate string           `json:"start_date" binding:"required"`
	EndDate   string           `json:"end_date" binding:"required"`
	Override  *OverrideRequest `json:"override"`
}

type ScenarioRequest struct {
	Name     string          `json:"name" binding:"required"`
	Override OverrideRequest `json:"override"`
}

type CompareRequest struct {
	ProductID string            `json:"product_id" binding:"required"`
	StartDate string            `json:"start_date" binding:"required"`
	EndDate   string            `json:"end_date" binding:"required"`
	Scenarios []ScenarioRequest `json:"scenarios" binding:"required,min=1"`
}

func (h *SimulationHandler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	rng, ok := parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	override, err := req.Override.toDomain()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.RunSimulation(c.Request.Context(), req.ProductID, rng, override)
	if err != nil {
		simulationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SimulationHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	rng, ok := parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	scenarios := make([]domain.Scenario, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		override, err := sc.Override.toDomain()
		if err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		scenario := domain.Scenario{Name: sc.Name}
		if override != nil {
			scenario.Override = *override
		}
		scenarios = append(scenarios, scenario)
	}

	result, err := h.service.CompareScenarios(c.Request.Context(), req.ProductID, scenarios, rng)
	if err != nil {
		simulationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (r *OverrideRequest) toDomain() (*domain.ScenarioOverride, error) {
	if r == nil {
		return nil, nil
	}

	override := &domain.ScenarioOverride{
		SupplierID:        r.SupplierID,
		EOQ:               r.EOQ,
		ReorderPoint:      r.ReorderPoint,
		SafetyStock:       r.SafetyStock,
		AnnualHoldingRate: r.AnnualHoldingRate,
		StockoutPenalty:   r.StockoutPenalty,
	}

	if len(r.DemandOverrides) > 0 {
		override.DemandOverrides = make(map[time.Time]int, len(r.DemandOverrides))
		for dateStr, qty := range r.DemandOverrides {
			day, err := domain.ParseDay(dateStr)
			if err != nil {
				return nil, &domain.ValidationError{
					Entity: "demand override", ID: dateStr, Reason: "date must be YYYY-MM-DD",
				}
			}
			override.DemandOverrides[day] = qty
		}
	}

	return override, nil
}

func parseRange(c *gin.Context, startStr, endStr string) (domain.DateRange, bool) {
	start, err := domain.ParseDay(startStr)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return domain.DateRange{}, false
	}
	end, err := domain.ParseDay(endStr)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return domain.DateRange{}, false
	}
	return domain.NewDateRange(start, end), true
}

// simulationError maps the error taxonomy to HTTP statuses: missing data is
// 404, bad ranges and malformed rows are 422, everything else is 500.
func simulationError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		errorResponse(c, http.StatusNotFound, err.Error())
	case domain.IsDateRange(err), domain.IsValidation(err):
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		errorResponse(c, http.StatusInternalServerError, err.Error())
	}
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
