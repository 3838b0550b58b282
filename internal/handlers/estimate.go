package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/shreesteel/backend/internal/errors"
	"github.com/shreesteel/backend/internal/estimate"
	"github.com/shreesteel/backend/internal/middleware"
)

type estimateRequest struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	WidthUnit  string  `json:"widthUnit"`
	HeightUnit string  `json:"heightUnit"`

	GrillType   string `json:"grillType"`
	MetalType   string `json:"metalType"`
	ProfileType string `json:"profileType"`

	Advanced bool `json:"advanced"`

	CustomLinearFactor  float64 `json:"customLinearFactor"`
	CustomProfileWeight float64 `json:"customProfileWeight"`

	DesignType         string  `json:"designType"`
	BarSpacing         float64 `json:"barSpacing"`
	WastagePercent     float64 `json:"wastagePercent"`
	LaborRate          float64 `json:"laborRate"`
	CustomDesignFactor float64 `json:"customDesignFactor"`
}

// ComputeEstimate runs the pricing engine server-side so the quote flow can
// work without the frontend calculator.
// POST /api/estimate
func (h *Handlers) ComputeEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	if req.Width <= 0 || req.Height <= 0 {
		respondError(c, apierrors.Validation(
			apierrors.FieldError{Field: "width", Message: "width and height must be positive"},
		))
		return
	}

	result := estimate.Estimate(estimate.Input{
		Width:      req.Width,
		Height:     req.Height,
		WidthUnit:  estimate.Unit(req.WidthUnit),
		HeightUnit: estimate.Unit(req.HeightUnit),

		GrillType:   estimate.GrillType(req.GrillType),
		MetalType:   estimate.MetalType(req.MetalType),
		ProfileType: estimate.ProfileType(req.ProfileType),

		Advanced: req.Advanced,

		CustomLinearFactor:  req.CustomLinearFactor,
		CustomProfileWeight: req.CustomProfileWeight,

		DesignType:         estimate.DesignType(req.DesignType),
		BarSpacing:         req.BarSpacing,
		WastagePercent:     req.WastagePercent,
		LaborRate:          req.LaborRate,
		CustomDesignFactor: req.CustomDesignFactor,
	})

	middleware.RecordEstimateComputed(req.GrillType, req.MetalType)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
