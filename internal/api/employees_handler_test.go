package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/pallas/internal/api"
	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/UnknownOlympus/pallas/internal/models"
	"github.com/UnknownOlympus/pallas/internal/repository"
	"github.com/UnknownOlympus/pallas/internal/services/employees"
	mocks "github.com/UnknownOlympus/pallas/mock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T, service api.EmployeeService) (*fiber.App, *metrics.Metrics) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	return api.NewApp(logger, service, appMetrics, time.Second), appMetrics
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestCreateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("returns created employee", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, appMetrics := newTestApp(t, service)

		expected := models.Employee{FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"}
		service.On("SaveEmployee", mock.Anything, expected).
			Return(func(_ context.Context, e models.Employee) (models.Employee, error) {
				return e.WithID(1), nil
			}).Once()

		resp := doRequest(t, app, http.MethodPost, "/api/employees",
			`{"firstName":"Ali","lastName":"Aydin","email":"a@a.com"}`)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		created := decode[models.Employee](t, resp)
		assert.Equal(t, expected.WithID(1), created)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
		assert.InDelta(t, 1,
			testutil.ToFloat64(appMetrics.HTTPRequests.WithLabelValues(http.MethodPost, "/api/employees", "201")), 0)
	})

	t.Run("ignores id in body", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		expected := models.Employee{FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"}
		service.On("SaveEmployee", mock.Anything, expected).Return(expected.WithID(8), nil).Once()

		resp := doRequest(t, app, http.MethodPost, "/api/employees",
			`{"id":77,"firstName":"Ali","lastName":"Aydin","email":"a@a.com"}`)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, int64(8), decode[models.Employee](t, resp).ID)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("SaveEmployee", mock.Anything, mock.Anything).
			Return(models.Employee{}, &employees.DuplicateResourceError{Email: "a@a.com"}).Once()

		resp := doRequest(t, app, http.MethodPost, "/api/employees",
			`{"firstName":"Ali","lastName":"Aydin","email":"a@a.com"}`)

		require.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decode[errorEnvelope](t, resp)
		assert.Equal(t, "DUPLICATE_EMAIL", body.Error.Code)
		assert.Contains(t, body.Error.Message, "a@a.com")
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		resp := doRequest(t, app, http.MethodPost, "/api/employees", `{"firstName":"Ali","email":"not-an-email"}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[errorEnvelope](t, resp)
		assert.Equal(t, "INVALID_INPUT", body.Error.Code)
		fieldErrors, ok := body.Error.Details["errors"].([]any)
		require.True(t, ok)
		assert.Len(t, fieldErrors, 2)
		service.AssertNotCalled(t, "SaveEmployee", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		resp := doRequest(t, app, http.MethodPost, "/api/employees", `{"firstName":`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid request body", decode[errorEnvelope](t, resp).Error.Message)
	})

	t.Run("storage failure is hidden", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("SaveEmployee", mock.Anything, mock.Anything).Return(models.Employee{}, assert.AnError).Once()

		resp := doRequest(t, app, http.MethodPost, "/api/employees",
			`{"firstName":"Ali","lastName":"Aydin","email":"a@a.com"}`)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decode[errorEnvelope](t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, body.Error.Message, assert.AnError.Error())
	})
}

func TestCreateEmployee_ThroughService(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	repo := mocks.NewEmployeeRepoIface(t)
	staff := employees.NewStaff(logger, repo, appMetrics)
	app := api.NewApp(logger, staff, appMetrics, time.Second)

	employee := models.Employee{FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"}
	repo.On("FindByEmail", mock.Anything, "a@a.com").Return(models.Employee{}, false, nil).Once()
	repo.On("Save", mock.Anything, employee).Return(employee.WithID(1), nil).Once()
	repo.On("FindByEmail", mock.Anything, "a@a.com").Return(employee.WithID(1), true, nil).Once()

	payload, err := json.Marshal(map[string]string{"firstName": "Ali", "lastName": "Aydin", "email": "a@a.com"})
	require.NoError(t, err)

	first := doRequest(t, app, http.MethodPost, "/api/employees", string(payload))
	require.Equal(t, http.StatusCreated, first.StatusCode)
	assert.JSONEq(t, `{"id":1,"firstName":"Ali","lastName":"Aydin","email":"a@a.com"}`, readBody(t, first))

	second := doRequest(t, app, http.MethodPost, "/api/employees", string(payload))
	require.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestListEmployees(t *testing.T) {
	t.Parallel()

	t.Run("returns all", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("GetAllEmployees", mock.Anything).Return([]models.Employee{
			{ID: 1, FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"},
			{ID: 2, FirstName: "Veli", LastName: "Deli", Email: "v@d.com"},
		}, nil).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decode[[]models.Employee](t, resp), 2)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("GetAllEmployees", mock.Anything).Return([]models.Employee{}, nil).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, readBody(t, resp))
	})
}

func TestGetEmployee(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		expected := models.Employee{ID: 3, FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"}
		service.On("GetEmployeeByID", mock.Anything, int64(3)).Return(expected, true, nil).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees/3", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, expected, decode[models.Employee](t, resp))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("GetEmployeeByID", mock.Anything, int64(3)).Return(models.Employee{}, false, nil).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees/3", "")

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorEnvelope](t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		resp := doRequest(t, app, http.MethodGet, "/api/employees/abc", "")

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSearchEmployee(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		expected := models.Employee{ID: 1, FirstName: "Ali", LastName: "Aydin", Email: "a@a.com"}
		service.On("FindEmployeeByName", mock.Anything, "Ali", "Aydin").Return(expected, nil).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees/search?firstName=Ali&lastName=Aydin", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, expected, decode[models.Employee](t, resp))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("FindEmployeeByName", mock.Anything, "No", "Body").
			Return(models.Employee{}, repository.ErrNotFound).Once()

		resp := doRequest(t, app, http.MethodGet, "/api/employees/search?firstName=No&lastName=Body", "")

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "employee not found", decode[errorEnvelope](t, resp).Error.Message)
	})

	t.Run("missing parameters", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		resp := doRequest(t, app, http.MethodGet, "/api/employees/search?firstName=Ali", "")

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("replaces employee", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		expected := models.Employee{ID: 5, FirstName: "Joe", LastName: "Aydin", Email: "qwe@qwe.com"}
		service.On("UpdateEmployee", mock.Anything, expected).Return(expected, nil).Once()

		resp := doRequest(t, app, http.MethodPut, "/api/employees/5",
			`{"id":9,"firstName":"Joe","lastName":"Aydin","email":"qwe@qwe.com"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, expected, decode[models.Employee](t, resp))
	})

	t.Run("unknown employee", func(t *testing.T) {
		t.Parallel()
		service := mocks.NewEmployeeService(t)
		app, _ := newTestApp(t, service)

		service.On("UpdateEmployee", mock.Anything, mock.Anything).
			Return(models.Employee{}, apperr.New(apperr.KindNotFound, "employee not found", nil)).Once()

		resp := doRequest(t, app, http.MethodPut, "/api/employees/5",
			`{"firstName":"Joe","lastName":"Aydin","email":"qwe@qwe.com"}`)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	service := mocks.NewEmployeeService(t)
	app, _ := newTestApp(t, service)

	service.On("DeleteEmployee", mock.Anything, int64(4)).Return(nil).Once()

	resp := doRequest(t, app, http.MethodDelete, "/api/employees/4", "")

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, mocks.NewEmployeeService(t))

	resp := doRequest(t, app, http.MethodGet, "/api/unknown", "")

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[errorEnvelope](t, resp).Error.Code)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return buf.String()
}
