// Package estimate implements the grill pricing engine: a pure function of
// physical dimensions, categorical selections and static rate tables.
package estimate

import "math"

// Unit is a supported length unit for dimension input.
type Unit string

const (
	UnitMM   Unit = "mm"
	UnitCM   Unit = "cm"
	UnitInch Unit = "inch"
	UnitFt   Unit = "ft"
	UnitM    Unit = "m"
)

// GrillType selects the fabrication category.
type GrillType string

const (
	GrillWindow     GrillType = "window"
	GrillSecurity   GrillType = "security"
	GrillDecorative GrillType = "decorative"
	GrillBalcony    GrillType = "balcony"
	GrillGate       GrillType = "gate"
	GrillStaircase  GrillType = "staircase"
)

// MetalType selects the raw material.
type MetalType string

const (
	MetalSteel     MetalType = "steel"
	MetalStainless MetalType = "stainless"
	MetalAluminum  MetalType = "aluminum"
	MetalIron      MetalType = "iron"
)

// ProfileType selects the bar cross-section.
type ProfileType string

const (
	ProfileSquare ProfileType = "square"
	ProfileRound  ProfileType = "round"
	ProfileAngle  ProfileType = "angle"
)

// DesignType selects fabrication complexity in advanced mode.
type DesignType string

const (
	DesignSimple DesignType = "simple"
	DesignMedium DesignType = "medium"
	DesignHeavy  DesignType = "heavy"
)

// Metal base rates per kg (₹).
var metalRates = map[MetalType]float64{
	MetalSteel:     102, // Mild steel
	MetalStainless: 450,
	MetalAluminum:  280,
	MetalIron:      95, // Cast iron
}

// Grill complexity multipliers applied to the metal rate.
var grillComplexity = map[GrillType]float64{
	GrillWindow:     1.0,
	GrillSecurity:   1.3,
	GrillDecorative: 1.5,
	GrillBalcony:    1.2,
	GrillGate:       1.4,
	GrillStaircase:  1.6,
}

// Linear meters of profile needed per square meter of grill area.
var linearMetersPerSqMeter = map[GrillType]float64{
	GrillWindow:     6,
	GrillSecurity:   10,
	GrillDecorative: 8,
	GrillBalcony:    7,
	GrillGate:       12,
	GrillStaircase:  9,
}

// Weight per meter (kg/m) by profile and metal.
// Standard sizes: square 20x20x2mm, round 20mm dia x 2mm wall, angle 25x25x3mm.
var weightPerMeter = map[ProfileType]map[MetalType]float64{
	ProfileSquare: {
		MetalSteel:     1.15,
		MetalStainless: 1.15,
		MetalAluminum:  0.40,
		MetalIron:      1.08,
	},
	ProfileRound: {
		MetalSteel:     0.89,
		MetalStainless: 0.89,
		MetalAluminum:  0.31,
		MetalIron:      0.84,
	},
	ProfileAngle: {
		MetalSteel:     1.78,
		MetalStainless: 1.78,
		MetalAluminum:  0.62,
		MetalIron:      1.67,
	},
}

// 12mm bar weight in kg per foot used by the advanced formula.
var barWeightPerFoot12mm = map[ProfileType]float64{
	ProfileSquare: 1.13,
	ProfileRound:  0.89,
}

type designConfig struct {
	barSpacingDefault float64 // inches
	complexityFactor  float64
}

var designTypeConfig = map[DesignType]designConfig{
	DesignSimple: {barSpacingDefault: 4, complexityFactor: 1.0},
	DesignMedium: {barSpacingDefault: 3, complexityFactor: 1.3},
	DesignHeavy:  {barSpacingDefault: 2.5, complexityFactor: 1.6},
}

// Conversion factors to centimeters.
var cmPerUnit = map[Unit]float64{
	UnitCM:   1,
	UnitMM:   0.1,
	UnitInch: 2.54,
	UnitFt:   30.48,
	UnitM:    100,
}

const (
	cmToFeet   = 0.0328084
	sqftToSqm  = 0.092903
	feetToM    = 0.3048
	feetPerM   = 3.28084
	minWeight  = 0.1 // kg floor for non-degenerate standard estimates
	defWastage = 7   // percent
	defLabor   = 80  // ₹ per sq.ft
)

// Input carries every estimator parameter. Zero-valued advanced fields fall
// back to design defaults, matching the calculator's behavior when a field
// is left blank.
type Input struct {
	Width      float64
	Height     float64
	WidthUnit  Unit
	HeightUnit Unit

	GrillType   GrillType
	MetalType   MetalType
	ProfileType ProfileType

	Advanced bool

	// Standard-mode overrides
	CustomLinearFactor  float64 // m/m², 0 = use grill-type table
	CustomProfileWeight float64 // kg/m, 0 = use profile/metal table

	// Advanced-mode parameters
	DesignType         DesignType
	BarSpacing         float64 // inches, 0 = design default
	WastagePercent     float64 // 0 = 7%
	LaborRate          float64 // ₹/sq.ft, 0 = 80
	CustomDesignFactor float64 // ₹/ft surcharge for fancy work, 0 = none
}

// Result is the full estimate with the display quantities the quote UI shows.
type Result struct {
	Weight float64 `json:"weight"` // kg
	Cost   float64 `json:"cost"`   // ₹

	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	DesignCost   float64 `json:"designCost"`

	NumberOfBars      int     `json:"numberOfBars"`
	TotalBarLength    float64 `json:"totalBarLength"` // feet, unadjusted
	WastageWeight     float64 `json:"wastageWeight"`
	TotalLinearMeters float64 `json:"totalLinearMeters"`
	LinearFactor      float64 `json:"linearFactor"`  // m/m²
	ProfileWeight     float64 `json:"profileWeight"` // kg/m
	GrillAreaSqMeters float64 `json:"grillAreaSqMeters"`
}

// MetalRate returns the effective ₹/kg rate for a metal under a grill type's
// complexity multiplier.
func MetalRate(metal MetalType, grill GrillType) float64 {
	rate, ok := metalRates[metal]
	if !ok {
		rate = metalRates[MetalSteel]
	}
	complexity, ok := grillComplexity[grill]
	if !ok {
		complexity = 1.0
	}
	return rate * complexity
}

// ToCm converts a dimension to centimeters. Unknown units are treated as cm.
func ToCm(value float64, unit Unit) float64 {
	factor, ok := cmPerUnit[unit]
	if !ok {
		factor = 1
	}
	return value * factor
}

// Estimate computes weight, cost and the cost breakdown for the given input.
// Zero or negative dimensions yield an all-zero result rather than an error.
func Estimate(in Input) Result {
	widthCm := ToCm(in.Width, in.WidthUnit)
	heightCm := ToCm(in.Height, in.HeightUnit)

	if widthCm <= 0 || heightCm <= 0 {
		return Result{}
	}

	if in.Advanced {
		return estimateAdvanced(in, widthCm, heightCm)
	}
	return estimateStandard(in, widthCm, heightCm)
}

// estimateStandard applies the linear-profile method: grill area times a
// per-grill-type linear density gives total profile length, length times a
// per-profile weight gives the weight, weight times the effective metal rate
// gives the cost.
func estimateStandard(in Input, widthCm, heightCm float64) Result {
	areaSqMeters := (widthCm / 100) * (heightCm / 100)

	linearFactor := in.CustomLinearFactor
	if linearFactor <= 0 {
		var ok bool
		if linearFactor, ok = linearMetersPerSqMeter[in.GrillType]; !ok {
			linearFactor = linearMetersPerSqMeter[GrillWindow]
		}
	}
	totalLinearMeters := areaSqMeters * linearFactor

	profileWeight := in.CustomProfileWeight
	if profileWeight <= 0 {
		if byMetal, ok := weightPerMeter[in.ProfileType]; ok {
			profileWeight = byMetal[in.MetalType]
		}
		if profileWeight == 0 {
			profileWeight = weightPerMeter[ProfileSquare][MetalSteel]
		}
	}

	weight := math.Max(minWeight, totalLinearMeters*profileWeight)
	cost := weight * MetalRate(in.MetalType, in.GrillType)

	return Result{
		Weight:            weight,
		Cost:              cost,
		MaterialCost:      cost,
		TotalLinearMeters: totalLinearMeters,
		LinearFactor:      linearFactor,
		ProfileWeight:     profileWeight,
		GrillAreaSqMeters: areaSqMeters,
	}
}

// estimateAdvanced applies the practical fabrication formula: ceiling-divide
// the width by bar spacing for a bar count, scale the bar length by the
// design complexity, weigh it as 12mm bar stock plus wastage, and price
// material, labor and optional design work separately.
func estimateAdvanced(in Input, widthCm, heightCm float64) Result {
	widthFt := widthCm * cmToFeet
	heightFt := heightCm * cmToFeet
	areaSqFt := widthFt * heightFt
	areaSqMeters := areaSqFt * sqftToSqm

	design, ok := designTypeConfig[in.DesignType]
	if !ok {
		design = designTypeConfig[DesignSimple]
	}

	spacing := in.BarSpacing
	if spacing <= 0 {
		spacing = design.barSpacingDefault
	}

	widthInches := widthFt * 12
	numberOfBars := int(math.Ceil(widthInches / spacing))
	totalBarLength := float64(numberOfBars) * heightFt // vertical bars only
	adjustedBarLength := totalBarLength * design.complexityFactor

	weightPerFoot, ok := barWeightPerFoot12mm[in.ProfileType]
	if !ok {
		// Angle and unknown profiles fall back to round bar stock.
		weightPerFoot = barWeightPerFoot12mm[ProfileRound]
	}

	baseWeight := adjustedBarLength * weightPerFoot
	wastage := in.WastagePercent
	if wastage <= 0 {
		wastage = defWastage
	}
	wastageWeight := baseWeight * (wastage / 100)
	weight := baseWeight + wastageWeight

	laborRate := in.LaborRate
	if laborRate <= 0 {
		laborRate = defLabor
	}

	materialCost := weight * MetalRate(in.MetalType, in.GrillType)
	laborCost := areaSqFt * laborRate
	designCost := 0.0
	if in.CustomDesignFactor > 0 {
		designCost = adjustedBarLength * in.CustomDesignFactor
	}
	cost := materialCost + laborCost + designCost

	totalLinearMeters := adjustedBarLength * feetToM

	return Result{
		Weight:            weight,
		Cost:              cost,
		MaterialCost:      materialCost,
		LaborCost:         laborCost,
		DesignCost:        designCost,
		NumberOfBars:      numberOfBars,
		TotalBarLength:    totalBarLength,
		WastageWeight:     wastageWeight,
		TotalLinearMeters: totalLinearMeters,
		LinearFactor:      totalLinearMeters / areaSqMeters,
		ProfileWeight:     weightPerFoot * feetPerM,
		GrillAreaSqMeters: areaSqMeters,
	}
}
