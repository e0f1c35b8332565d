package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
)

func TestRestrictTo(t *testing.T) {
	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"admin on admin route", model.RoleAdmin, []string{model.RoleAdmin}, http.StatusOK},
		{"agency on staff route", model.RoleAgency, []string{model.RoleAdmin, model.RoleAgency}, http.StatusOK},
		{"guest on staff route", model.RoleGuest, []string{model.RoleAdmin, model.RoleAgency}, http.StatusForbidden},
		{"agency on admin route", model.RoleAgency, []string{model.RoleAdmin}, http.StatusForbidden},
		{"uppercase role is rejected", "Admin", []string{model.RoleAdmin}, http.StatusForbidden},
		{"missing role", nil, []string{model.RoleAdmin}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}

			h := RestrictTo(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
