package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEstimateStandard(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/estimate", map[string]interface{}{
		"width":       100,
		"height":      200,
		"widthUnit":   "cm",
		"heightUnit":  "cm",
		"grillType":   "window",
		"metalType":   "steel",
		"profileType": "square",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.InDelta(t, 13.8, data["weight"].(float64), 0.001)
	assert.InDelta(t, 1407.6, data["cost"].(float64), 0.001)
	assert.InDelta(t, 2.0, data["grillAreaSqMeters"].(float64), 0.001)
}

func TestComputeEstimateAdvanced(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/estimate", map[string]interface{}{
		"width":       100,
		"height":      200,
		"widthUnit":   "cm",
		"heightUnit":  "cm",
		"grillType":   "window",
		"metalType":   "steel",
		"profileType": "square",
		"advanced":    true,
		"designType":  "simple",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 10, data["numberOfBars"])
	assert.Greater(t, data["laborCost"].(float64), 0.0)
	assert.Greater(t, data["materialCost"].(float64), 0.0)
}

func TestComputeEstimateRejectsNonPositiveDimensions(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/estimate", map[string]interface{}{
		"width":  0,
		"height": 200,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
