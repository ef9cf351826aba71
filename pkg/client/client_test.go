package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"expensems/pkg/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authResponse(role string) api.AuthResponse {
	return api.AuthResponse{
		Token:        "access-token",
		RefreshToken: "refresh-token",
		User: api.UserProfile{
			ID:        uuid.New(),
			Email:     "user@example.com",
			FirstName: "Test",
			LastName:  "User",
			Role:      role,
		},
	}
}

func TestLoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)

		json.NewEncoder(w).Encode(authResponse(api.RoleUser))
	}))
	defer server.Close()

	c := New(server.URL)
	auth, err := c.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "access-token", auth.Token)
	assert.True(t, c.Session().Authenticated())
	assert.Equal(t, "access-token", c.Session().Token())
	assert.Equal(t, "refresh-token", c.Session().RefreshToken())
	require.NotNil(t, c.Session().User())
	assert.Equal(t, "user@example.com", c.Session().User().Email)
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]api.Category{})
	}))
	defer server.Close()

	c := New(server.URL)

	_, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no header expected before login")

	c.Session().Restore("my-token", "")
	_, err = c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-token", gotAuth)
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(api.ErrorResponse{Message: "token expired"})
	}))
	defer server.Close()

	hookCalled := false
	c := New(server.URL, WithUnauthorizedHandler(func() { hookCalled = true }))
	c.Session().Restore("stale-token", "stale-refresh")

	_, err := c.Me(context.Background())
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.True(t, hookCalled)
	assert.False(t, c.Session().Authenticated())
	assert.Empty(t, c.Session().RefreshToken())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c := New(server.URL)
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestServerValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(api.ErrorResponse{
			Message: "Validation failed",
			Errors:  map[string]string{"amount": "Amount must be a positive number"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateExpense(context.Background(), api.ExpenseRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Validation failed", apiErr.Message)
	assert.Equal(t, "Amount must be a positive number", apiErr.Fields["amount"])
}

func TestNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListCategories(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestListExpensesQuery(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		json.NewEncoder(w).Encode(api.NewPage([]api.Expense{{ID: uuid.New()}}, 31, 2, 10))
	}))
	defer server.Close()

	c := New(server.URL)
	page, err := c.ListExpenses(context.Background(), ExpenseListParams{
		Page:   2,
		Size:   10,
		Sort:   "amount,asc",
		Status: "SUBMITTED",
	})
	require.NoError(t, err)

	assert.Equal(t, "2", gotQuery["page"])
	assert.Equal(t, "10", gotQuery["size"])
	assert.Equal(t, "amount,asc", gotQuery["sort"])
	assert.Equal(t, "SUBMITTED", gotQuery["status"])
	assert.NotContains(t, gotQuery, "categoryId")

	assert.Len(t, page.Content, 1)
	assert.Equal(t, int64(31), page.TotalElements)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 2, page.Number)
}

func TestUploadReceipt(t *testing.T) {
	expenseID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/receipts", r.URL.Path)
		require.Equal(t, expenseID.String(), r.URL.Query().Get("expenseId"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.pdf", header.Filename)

		json.NewEncoder(w).Encode(api.Receipt{
			ID:        uuid.New(),
			ExpenseID: expenseID,
			FileName:  header.Filename,
			FileSize:  header.Size,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	receipt, err := c.UploadReceipt(context.Background(), expenseID, "receipt.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, expenseID, receipt.ExpenseID)
	assert.Equal(t, "receipt.pdf", receipt.FileName)
	assert.Equal(t, int64(8), receipt.FileSize)
}

func TestDownloadReceipt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	c := New(server.URL)
	content, contentType, err := c.DownloadReceipt(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, []byte("%PDF-1.4"), content)
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL)
	c.Session().Restore("token", "refresh")

	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, c.Session().Authenticated())
}
