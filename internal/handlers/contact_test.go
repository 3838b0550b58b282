package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreesteel/backend/internal/models"
)

func TestSubmitContactSuccess(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["submissionId"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Ramesh Patel", data["name"])
	assert.Equal(t, "ramesh@example.com", data["email"])

	stored, err := env.submissions.GetByID(context.Background(), body["submissionId"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Equal(t, models.SourceWebsiteContact, stored.Source)
	assert.Equal(t, "other", stored.ProjectType)
	assert.NotEmpty(t, stored.IPAddress)
}

func TestSubmitContactCalculatorSource(t *testing.T) {
	env := newTestEnv(t)

	payload := validContactBody()
	payload["calculatorData"] = map[string]interface{}{
		"dimensions": map[string]interface{}{
			"width": 100, "height": 200, "widthUnit": "cm", "heightUnit": "cm",
		},
		"grillType":       "window",
		"metalType":       "steel",
		"estimatedWeight": 13.8,
		"estimatedCost":   1407.6,
		"calculatorType":  "standard",
	}

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", payload, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	stored, err := env.submissions.GetByID(context.Background(), body["submissionId"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.SourceCalculatorQuote, stored.Source)
	require.NotNil(t, stored.CalculatorData)
	assert.Equal(t, "standard", stored.CalculatorData.CalculatorType)
}

func TestSubmitContactValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	payload := validContactBody()
	payload["name"] = "R"
	payload["email"] = "not-an-email"
	payload["phone"] = "0123"
	payload["subject"] = "Hi"
	payload["message"] = "short"

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", payload, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["message"])

	fieldErrors := body["errors"].([]interface{})
	seen := map[string]bool{}
	for _, fe := range fieldErrors {
		seen[fe.(map[string]interface{})["field"].(string)] = true
	}
	for _, field := range []string{"name", "email", "phone", "subject", "message"} {
		assert.True(t, seen[field], "expected a field error for %s", field)
	}
}

func TestSubmitContactMultibyteLengths(t *testing.T) {
	env := newTestEnv(t)

	// 100 Devanagari characters is 300 bytes but still within the name
	// bound; length limits count characters.
	payload := validContactBody()
	payload["name"] = strings.Repeat("श", 100)
	payload["subject"] = strings.Repeat("ग", 200)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", payload, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	payload = validContactBody()
	payload["name"] = strings.Repeat("श", 101)

	w = env.doJSON(t, http.MethodPost, "/api/contact/submit", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitContactInvalidEnum(t *testing.T) {
	env := newTestEnv(t)

	payload := validContactBody()
	payload["projectType"] = "skyscraper"

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSubmissionsRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/contact/submissions", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSubmissionsPagination(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	for i := 0; i < 3; i++ {
		w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.doJSON(t, http.MethodGet, "/api/contact/submissions?page=1&limit=2", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	submissions := data["submissions"].([]interface{})
	assert.Len(t, submissions, 2)

	pagination := data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["pages"])

	// List view strips the note trail and raw user agent.
	first := submissions[0].(map[string]interface{})
	assert.Empty(t, first["userAgent"])
}

func TestGetSubmissionNotFound(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.doJSON(t, http.MethodGet, "/api/contact/submission/no-such-id", nil, headers)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSubmissionStatus(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["submissionId"].(string)

	w = env.doJSON(t, http.MethodPut, "/api/contact/submission/"+id+"/status",
		map[string]interface{}{"status": "converted", "updatedBy": "sales"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.submissions.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConverted, stored.Status)
	assert.True(t, stored.Converted)
	require.NotNil(t, stored.ConversionDate)
	require.Len(t, stored.AdminNotes, 1)
	assert.Equal(t, "Status changed from new to converted", stored.AdminNotes[0].Note)
	assert.Equal(t, "sales", stored.AdminNotes[0].AddedBy)
}

func TestUpdateSubmissionStatusInvalid(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["submissionId"].(string)

	w = env.doJSON(t, http.MethodPut, "/api/contact/submission/"+id+"/status",
		map[string]interface{}{"status": "archived"}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status value")
}

func TestAddSubmissionNote(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["submissionId"].(string)

	w = env.doJSON(t, http.MethodPost, "/api/contact/submission/"+id+"/note",
		map[string]interface{}{"note": "  Called, asked to ring back Monday  "}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["noteCount"])

	stored, err := env.submissions.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, stored.AdminNotes, 1)
	assert.Equal(t, "Called, asked to ring back Monday", stored.AdminNotes[0].Note)
	assert.Equal(t, "admin", stored.AdminNotes[0].AddedBy)
}

func TestAddSubmissionNoteEmpty(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeBody(t, w)["submissionId"].(string)

	w = env.doJSON(t, http.MethodPost, "/api/contact/submission/"+id+"/note",
		map[string]interface{}{"note": "   "}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Note content is required")
}

func TestGetContactAnalytics(t *testing.T) {
	env := newTestEnv(t)
	headers := env.adminHeaders(t)

	for i := 0; i < 4; i++ {
		w := env.doJSON(t, http.MethodPost, "/api/contact/submit", validContactBody(), nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.doJSON(t, http.MethodGet, "/api/contact/analytics", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.EqualValues(t, 4, summary["totalSubmissions"])
	assert.EqualValues(t, 4, summary["newContacts"])

	recent := data["recentSubmissions"].([]interface{})
	assert.Len(t, recent, 4)

	statusBreakdown := data["statusBreakdown"].([]interface{})
	require.Len(t, statusBreakdown, 1)
	assert.Equal(t, "new", statusBreakdown[0].(map[string]interface{})["status"])
}
