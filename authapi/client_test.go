package authapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finovabank/client-go/authapi"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "john.doe@example.com", body.Email)
		require.Equal(t, "password123", body.Password)

		json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user": map[string]string{
				"id":        "user-1",
				"email":     "john.doe@example.com",
				"firstName": "John",
				"lastName":  "Doe",
			},
		})
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	res, err := c.Login(context.Background(), "john.doe@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "t1", res.Token)
	require.Equal(t, "user-1", res.User.ID)
	require.Equal(t, "John", res.User.FirstName)
}

func TestLoginRejectedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "john.doe@example.com", "wrong-password")
	var rejected *authapi.RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, http.StatusUnauthorized, rejected.StatusCode)
	require.Equal(t, "Invalid email or password", rejected.Message)
}

func TestLoginRejectedWithoutMessageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "john.doe@example.com", "password123")
	var rejected *authapi.RejectedError
	require.ErrorAs(t, err, &rejected)
	require.NotEmpty(t, rejected.Message)
}

func TestLoginNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "john.doe@example.com", "password123")
	var netErr *authapi.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestRegisterSendsAllFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "John", body["firstName"])
		require.Equal(t, "Doe", body["lastName"])
		require.Equal(t, "john.doe@example.com", body["email"])
		require.Equal(t, "password123", body["password"])
		require.NotContains(t, body, "confirmPassword")

		json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user":  map[string]string{"id": "user-1", "email": body["email"]},
		})
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	res, err := c.Register(context.Background(), authapi.Registration{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Password:  "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "t1", res.Token)
}

func TestVerify(t *testing.T) {
	valid := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify", r.URL.Path)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "t1", body.Token)

		json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)

	ok, err := c.Verify(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, ok)

	valid = false
	ok, err = c.Verify(context.Background(), "t1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLogoutBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := authapi.New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Logout(context.Background()))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := authapi.New("localhost:8080")
	require.Error(t, err)
}
