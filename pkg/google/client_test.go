package google_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThanhPhat1604/Assignment3SDN/pkg/google"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUserInfo(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method, "Expected GET request")
			assert.Equal(t, "Bearer ya29.goog-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"email": "jane@example.com", "name": "Jane Doe", "picture": "https://lh3.example.com/photo.jpg"}`))
		}))
		t.Cleanup(server.Close)

		client := google.NewClient(server.URL)

		// Act
		info, err := client.FetchUserInfo(ctx, "ya29.goog-token")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "jane@example.com", info.Email)
		assert.Equal(t, "Jane Doe", info.Name)
		assert.Equal(t, "https://lh3.example.com/photo.jpg", info.Picture)
	})

	t.Run("Failure - Invalid Token", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"code": 401, "message": "Invalid Credentials"}}`))
		}))
		t.Cleanup(server.Close)

		client := google.NewClient(server.URL)

		// Act
		info, err := client.FetchUserInfo(ctx, "expired-token")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "userinfo endpoint returned status 401")
		assert.Nil(t, info)
	})

	t.Run("Failure - Missing Email", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"name": "Jane Doe"}`))
		}))
		t.Cleanup(server.Close)

		client := google.NewClient(server.URL)

		// Act
		info, err := client.FetchUserInfo(ctx, "ya29.goog-token")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "did not contain an email")
		assert.Nil(t, info)
	})

	t.Run("Failure - Malformed Response", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"email":`))
		}))
		t.Cleanup(server.Close)

		client := google.NewClient(server.URL)

		// Act
		info, err := client.FetchUserInfo(ctx, "ya29.goog-token")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode userinfo response")
		assert.Nil(t, info)
	})

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := google.NewClient(server.URL)

		// Act
		info, err := client.FetchUserInfo(ctx, "ya29.goog-token")

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to call userinfo endpoint")
		assert.Nil(t, info)
	})
}
