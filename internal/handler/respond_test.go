package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/service"
)

func TestFailFromStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"conflict", repository.ErrConflict, http.StatusConflict},
		{"invalid transition", service.ErrInvalidTransition, http.StatusConflict},
		{"validation", errors.Join(service.ErrValidation, errors.New("bad amounts")), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := failFrom(c, tc.err, "not found"); err != nil {
				t.Fatalf("failFrom: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if body["status"] != "error" {
				t.Errorf("status field = %v, want error", body["status"])
			}
			if msg, _ := body["message"].(string); msg == "" {
				t.Error("message field should not be empty")
			}
		})
	}
}

func TestFailFromHidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := failFrom(c, errors.New("dial tcp 10.0.0.5:3306: i/o timeout"), "not found"); err != nil {
		t.Fatalf("failFrom: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["message"] != "operation failed" {
		t.Errorf("message = %v, want the generic operation failed", body["message"])
	}
}

func TestSuccessEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := successList(c, 2, echo.Map{"items": []int{1, 2}}); err != nil {
		t.Fatalf("successList: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["status"] != "success" {
		t.Errorf("status = %v, want success", body["status"])
	}
	if body["results"] != float64(2) {
		t.Errorf("results = %v, want 2", body["results"])
	}
}
