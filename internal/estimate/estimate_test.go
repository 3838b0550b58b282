package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardEstimateReferenceWindow(t *testing.T) {
	// 100cm x 200cm window grill, square steel profile:
	// area 2m², 6 m/m² → 12m of profile, 1.15 kg/m → 13.8kg, ₹102/kg × 1.0
	res := Estimate(Input{
		Width: 100, Height: 200,
		WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})

	assert.InDelta(t, 2.0, res.GrillAreaSqMeters, 1e-9)
	assert.InDelta(t, 12.0, res.TotalLinearMeters, 1e-9)
	assert.InDelta(t, 13.8, res.Weight, 1e-9)
	assert.InDelta(t, 1407.60, res.Cost, 0.01)
	assert.Equal(t, res.Cost, res.MaterialCost)
	assert.Zero(t, res.LaborCost)
	assert.Zero(t, res.DesignCost)
}

func TestEstimateUnitOrderIndependence(t *testing.T) {
	mixed := Estimate(Input{
		Width: 39.3700787, Height: 200, // ~100cm in inches
		WidthUnit: UnitInch, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})
	metric := Estimate(Input{
		Width: 1, Height: 2,
		WidthUnit: UnitM, HeightUnit: UnitM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})

	assert.InDelta(t, metric.Weight, mixed.Weight, 1e-4)
	assert.InDelta(t, metric.Cost, mixed.Cost, 1e-2)
}

func TestEstimateZeroDimensions(t *testing.T) {
	for _, in := range []Input{
		{Width: 0, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM},
		{Width: 100, Height: 0, WidthUnit: UnitCM, HeightUnit: UnitCM},
		{Width: -5, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM},
		{},
	} {
		res := Estimate(in)
		assert.Equal(t, Result{}, res)
	}
}

func TestStandardEstimateMinimumWeightFloor(t *testing.T) {
	// A 5cm x 5cm sliver computes below 0.1kg and is floored.
	res := Estimate(Input{
		Width: 5, Height: 5,
		WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})
	assert.InDelta(t, 0.1, res.Weight, 1e-9)
}

func TestCostMonotonicInDimensionsAndMetal(t *testing.T) {
	base := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})
	bigger := Estimate(Input{
		Width: 150, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
	})
	stainless := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalStainless, ProfileType: ProfileSquare,
	})

	assert.Greater(t, bigger.Cost, base.Cost)
	assert.Greater(t, stainless.Cost, base.Cost)
}

func TestMetalRateAppliesComplexityMultiplier(t *testing.T) {
	assert.InDelta(t, 102.0, MetalRate(MetalSteel, GrillWindow), 1e-9)
	assert.InDelta(t, 102.0*1.6, MetalRate(MetalSteel, GrillStaircase), 1e-9)
	assert.InDelta(t, 450.0*1.3, MetalRate(MetalStainless, GrillSecurity), 1e-9)
}

func TestStandardEstimateCustomOverrides(t *testing.T) {
	res := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
		CustomLinearFactor:  10,
		CustomProfileWeight: 2,
	})

	assert.InDelta(t, 20.0, res.TotalLinearMeters, 1e-9)
	assert.InDelta(t, 40.0, res.Weight, 1e-9)
	assert.InDelta(t, 10.0, res.LinearFactor, 1e-9)
	assert.InDelta(t, 2.0, res.ProfileWeight, 1e-9)
}

func TestAdvancedEstimateBarCountAndBreakdown(t *testing.T) {
	res := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillWindow, MetalType: MetalSteel, ProfileType: ProfileSquare,
		Advanced:   true,
		DesignType: DesignSimple,
	})

	// 100cm is 39.37in; at the simple-design default 4in spacing that is
	// ceil(9.84) = 10 vertical bars of 6.56ft each.
	require.Equal(t, 10, res.NumberOfBars)
	assert.InDelta(t, 65.6168, res.TotalBarLength, 0.001)

	// 12mm square bar at 1.13 kg/ft plus 7% wastage.
	baseWeight := res.TotalBarLength * 1.13
	assert.InDelta(t, baseWeight*0.07, res.WastageWeight, 0.001)
	assert.InDelta(t, baseWeight*1.07, res.Weight, 0.001)

	// Labor at the ₹80/sq.ft default over 21.53 sq.ft.
	assert.InDelta(t, 21.5278*80, res.LaborCost, 0.1)
	assert.Zero(t, res.DesignCost)
	assert.InDelta(t, res.MaterialCost+res.LaborCost, res.Cost, 1e-9)
}

func TestAdvancedEstimateDesignSurcharge(t *testing.T) {
	plain := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillDecorative, MetalType: MetalSteel, ProfileType: ProfileRound,
		Advanced:   true,
		DesignType: DesignHeavy,
	})
	fancy := Estimate(Input{
		Width: 100, Height: 200, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillDecorative, MetalType: MetalSteel, ProfileType: ProfileRound,
		Advanced:           true,
		DesignType:         DesignHeavy,
		CustomDesignFactor: 15,
	})

	assert.Zero(t, plain.DesignCost)
	assert.Greater(t, fancy.DesignCost, 0.0)
	assert.InDelta(t, plain.Cost+fancy.DesignCost, fancy.Cost, 1e-6)
}

func TestAdvancedEstimateComplexityFactorScalesLength(t *testing.T) {
	simple := Estimate(Input{
		Width: 120, Height: 150, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillSecurity, MetalType: MetalSteel, ProfileType: ProfileSquare,
		Advanced: true, DesignType: DesignSimple, BarSpacing: 3,
	})
	heavy := Estimate(Input{
		Width: 120, Height: 150, WidthUnit: UnitCM, HeightUnit: UnitCM,
		GrillType: GrillSecurity, MetalType: MetalSteel, ProfileType: ProfileSquare,
		Advanced: true, DesignType: DesignHeavy, BarSpacing: 3,
	})

	// Same bar count and raw length; heavy design multiplies adjusted length 1.6x.
	assert.Equal(t, simple.NumberOfBars, heavy.NumberOfBars)
	assert.InDelta(t, simple.TotalLinearMeters*1.6, heavy.TotalLinearMeters, 1e-6)
}

func TestToCmConversions(t *testing.T) {
	assert.InDelta(t, 100.0, ToCm(1000, UnitMM), 1e-9)
	assert.InDelta(t, 2.54, ToCm(1, UnitInch), 1e-9)
	assert.InDelta(t, 30.48, ToCm(1, UnitFt), 1e-9)
	assert.InDelta(t, 100.0, ToCm(1, UnitM), 1e-9)
	// Unknown units pass through as centimeters.
	assert.InDelta(t, 42.0, ToCm(42, Unit("furlong")), 1e-9)
}
