package handlers

import (
	"CogniCare/models"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	user            *models.User
	passwordUpdated bool
}

func (f *fakeUserService) ValidateAndCreateUser(ctx context.Context, user *models.User) error {
	return nil
}

func (f *fakeUserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeUserService) UpdateUserEmail(ctx context.Context, userID int64, newEmail string) error {
	return nil
}

func (f *fakeUserService) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	f.passwordUpdated = true
	return nil
}

func (f *fakeUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return f.user, nil
}

func (f *fakeUserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeUserService) UpdateUserProfile(ctx context.Context, userID int64, username, email string) error {
	return nil
}

func (f *fakeUserService) GetUserPermissions(ctx context.Context, userID int64) ([]models.Permission, error) {
	return []models.Permission{{ID: 1, Name: "assessment:read"}}, nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, userID int64) error {
	return nil
}

func TestLoginSetsAuthCookies(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	gin.SetMode(gin.TestMode)

	service := &fakeUserService{user: &models.User{
		ID:       7,
		Username: "huda",
		Email:    "huda@clinic.example",
		Password: "irrelevant-hash",
		Role:     models.Role{Name: models.RoleClinicalStaff},
	}}
	handler := NewAuthHandler(service)

	router := gin.New()
	router.POST("/auth/login", handler.Login)

	body := bytes.NewBufferString(`{"email":"huda@clinic.example","password":"Sup3r$ecret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
	}
	assert.Contains(t, names, "accessToken")
	assert.Contains(t, names, "refreshToken")
}

func TestChangePasswordRejectsWeakPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := &fakeUserService{}
	handler := NewAuthHandler(service)

	router := gin.New()
	router.POST("/change-password", handler.ChangePassword)

	// Complexity is checked before the reset code is even looked up.
	body := bytes.NewBufferString(`{"email":"huda@clinic.example","code":"123456","new_password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/change-password", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, service.passwordUpdated)
}
