package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-crud/auth"
	"simple-crud/logging"
	"simple-crud/models"
	"simple-crud/routes"
	"simple-crud/store"
)

func newServer(t *testing.T, requireToken bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(routes.SetupRoutes(routes.Deps{
		Store: store.NewMemoryStore(store.SampleItems()...),
		Auth: auth.NewAuthenticator(
			[]models.Credential{{Username: "admin", Password: "admin"}},
			auth.StaticIssuer{Token: auth.PlaceholderToken},
		),
		Logger:       logging.Discard(),
		RequireToken: requireToken,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CRUD(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t, false).URL+"/", time.Second)

	items, err := c.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.SampleItems(), items)

	created, err := c.CreateItem(ctx, "Book")
	require.NoError(t, err)
	assert.Equal(t, "Book", created.Name)

	got, err := c.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := c.UpdateItem(ctx, created.ID, "Novel")
	require.NoError(t, err)
	assert.Equal(t, "Novel", updated.Name)

	require.NoError(t, c.DeleteItem(ctx, created.ID))

	err = c.DeleteItem(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	msg, ok := ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Item not found", msg)
}

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t, false).URL, time.Second)

	_, err := c.Login(ctx, "admin", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	msg, _ := ServerMessage(err)
	assert.Equal(t, "Invalid credentials", msg)

	token, err := c.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, auth.PlaceholderToken, token)
}

func TestClient_SendsToken(t *testing.T) {
	ctx := context.Background()
	c := New(newServer(t, true).URL, time.Second)

	_, err := c.ListItems(ctx)
	assert.True(t, IsUnauthorized(err))

	_, err = c.Login(ctx, "admin", "admin")
	require.NoError(t, err)

	_, err = c.ListItems(ctx)
	assert.NoError(t, err)

	c.SetToken("")
	_, err = c.ListItems(ctx)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := newServer(t, false)
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).ListItems(context.Background())
	require.Error(t, err)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	_, ok := ServerMessage(err)
	assert.False(t, ok)
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).GetItem(context.Background(), 1)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ListItems(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	_, ok := ServerMessage(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "Bad Gateway")
}
