package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shreesteel/backend/internal/estimate"
)

var (
	estWidth      float64
	estHeight     float64
	estWidthUnit  string
	estHeightUnit string
	estGrill      string
	estMetal      string
	estProfile    string
	estAdvanced   bool
	estDesign     string
	estBarSpacing float64
	estWastage    float64
	estLaborRate  float64
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Compute a grill fabrication quote",
	Long: `Compute a grill fabrication quote locally, without contacting the server.
Standard mode prices by area and linear meters; advanced mode lays out
individual bars and itemizes material, labor and design costs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate()
	},
}

func init() {
	estimateCmd.Flags().Float64Var(&estWidth, "width", 0, "Grill width (required)")
	estimateCmd.Flags().Float64Var(&estHeight, "height", 0, "Grill height (required)")
	estimateCmd.Flags().StringVar(&estWidthUnit, "width-unit", "cm", "Width unit: mm, cm, inch, ft, m")
	estimateCmd.Flags().StringVar(&estHeightUnit, "height-unit", "cm", "Height unit: mm, cm, inch, ft, m")
	estimateCmd.Flags().StringVar(&estGrill, "grill", "window", "Grill type: window, security, decorative, balcony, gate, staircase")
	estimateCmd.Flags().StringVar(&estMetal, "metal", "steel", "Metal type: steel, stainless, aluminum, iron")
	estimateCmd.Flags().StringVar(&estProfile, "profile", "square", "Bar profile: square, round, angle")
	estimateCmd.Flags().BoolVar(&estAdvanced, "advanced", false, "Use bar-layout pricing instead of area pricing")
	estimateCmd.Flags().StringVar(&estDesign, "design", "simple", "Design complexity (advanced mode): simple, medium, heavy")
	estimateCmd.Flags().Float64Var(&estBarSpacing, "bar-spacing", 0, "Bar spacing in inches (advanced mode, 0 = design default)")
	estimateCmd.Flags().Float64Var(&estWastage, "wastage", 0, "Wastage percent (advanced mode, 0 = 7%)")
	estimateCmd.Flags().Float64Var(&estLaborRate, "labor-rate", 0, "Labor rate in ₹/sq.ft (advanced mode, 0 = 80)")

	_ = estimateCmd.MarkFlagRequired("width")
	_ = estimateCmd.MarkFlagRequired("height")
}

func runEstimate() error {
	if estWidth <= 0 || estHeight <= 0 {
		return fmt.Errorf("width and height must be positive")
	}

	in := estimate.Input{
		Width:          estWidth,
		Height:         estHeight,
		WidthUnit:      estimate.Unit(estWidthUnit),
		HeightUnit:     estimate.Unit(estHeightUnit),
		GrillType:      estimate.GrillType(estGrill),
		MetalType:      estimate.MetalType(estMetal),
		ProfileType:    estimate.ProfileType(estProfile),
		Advanced:       estAdvanced,
		DesignType:     estimate.DesignType(estDesign),
		BarSpacing:     estBarSpacing,
		WastagePercent: estWastage,
		LaborRate:      estLaborRate,
	}

	result := estimate.Estimate(in)

	if output == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Grill estimate (%s %s, %s profile)\n", estMetal, estGrill, estProfile)
	fmt.Printf("  Area:     %.2f sq.m\n", result.GrillAreaSqMeters)
	fmt.Printf("  Weight:   %.2f kg\n", result.Weight)
	if estAdvanced {
		fmt.Printf("  Bars:     %d (%.1f ft total)\n", result.NumberOfBars, result.TotalBarLength)
		fmt.Printf("  Material: ₹%.2f\n", result.MaterialCost)
		fmt.Printf("  Labor:    ₹%.2f\n", result.LaborCost)
		if result.DesignCost > 0 {
			fmt.Printf("  Design:   ₹%.2f\n", result.DesignCost)
		}
	}
	fmt.Printf("  Total:    ₹%.2f\n", result.Cost)

	return nil
}
