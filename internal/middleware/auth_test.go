package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evrenos/tour-booking/internal/model"
	"github.com/evrenos/tour-booking/internal/repository"
	"github.com/evrenos/tour-booking/internal/utils"
)

type fakeUserFinder struct {
	users map[uint64]model.User
}

func (f *fakeUserFinder) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

const testSecret = "test-secret"

func runProtect(t *testing.T, authHeader string, users UserFinder) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Protect(testSecret, users)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if called != (rec.Code == http.StatusOK) {
		t.Fatalf("next called = %v with status %d", called, rec.Code)
	}
	return rec, c
}

func TestProtectMissingHeader(t *testing.T) {
	rec, _ := runProtect(t, "", &fakeUserFinder{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProtectInvalidToken(t *testing.T) {
	rec, _ := runProtect(t, "Bearer garbage", &fakeUserFinder{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestProtectValidTokenLiveUser(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 7, model.RoleAgency, 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	users := &fakeUserFinder{users: map[uint64]model.User{7: {ID: 7, Role: model.RoleAgency}}}

	rec, c := runProtect(t, "Bearer "+access.Token, users)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if id, _ := c.Get("user_id").(uint64); id != 7 {
		t.Errorf("user_id = %v, want 7", c.Get("user_id"))
	}
	if role, _ := c.Get("role").(string); role != model.RoleAgency {
		t.Errorf("role = %v, want agency", c.Get("role"))
	}
}

func TestProtectDeletedUser(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 9, model.RoleGuest, 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, _ := runProtect(t, "Bearer "+access.Token, &fakeUserFinder{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
