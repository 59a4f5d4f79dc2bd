package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/recipebook/recipebook-go/internal/crypto"
	"github.com/recipebook/recipebook-go/internal/model"
	"github.com/recipebook/recipebook-go/internal/repository"
	"github.com/recipebook/recipebook-go/internal/service"
	"github.com/recipebook/recipebook-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router http.Handler
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)
	hasher := crypto.NewPasswordHasher(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	router := NewRouter(ctx, RouterConfig{
		Recipes:       service.NewRecipeService(repository.NewRecipeRepository(store.NewMemoryStore(repository.RecipeSchema))),
		Products:      service.NewProductService(repository.NewProductRepository(store.NewMemoryStore(repository.ProductSchema))),
		Auth:          service.NewAuthService(repository.NewUserRepository(store.NewMemoryStore(repository.UserSchema), hasher, tokens)),
		Tokens:        tokens,
		AuthRateRPS:   1000,
		AuthRateBurst: 1000,
	})

	token, err := tokens.Issue(uuid.NewString(), repository.DefaultRole)
	require.NoError(t, err)

	return &testEnv{router: router, token: token}
}

type envelope struct {
	StatusCode    int             `json:"status_code"`
	IsSuccess     bool            `json:"is_success"`
	ErrorMessages []string        `json:"error_messages"`
	Result        json.RawMessage `json:"result"`
}

func (e *testEnv) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	assert.Equal(t, rec.Code, env.StatusCode)
	return env
}

func (e *testEnv) createRecipe(t *testing.T, name string, products ...uuid.UUID) model.RecipeDTO {
	t.Helper()
	if products == nil {
		products = []uuid.UUID{}
	}
	body, err := json.Marshal(model.RecipeCreateDTO{Name: name, ProductIDs: products})
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/v1/Recipes", string(body), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto model.RecipeDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &dto))
	return dto
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", "", false)

	rec := env.do(t, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recipebook_http_requests_total")
}

func TestRecipesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/Recipes", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipeCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	product := uuid.New()

	body := `{"name":"Fried eggs","description":"Quick","product_ids":["` + product.String() + `"]}`
	rec := env.do(t, http.MethodPost, "/api/v1/Recipes", body, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decodeEnvelope(t, rec)
	assert.True(t, res.IsSuccess)
	assert.Empty(t, res.ErrorMessages)

	var created model.RecipeDTO
	require.NoError(t, json.Unmarshal(res.Result, &created))
	assert.Equal(t, "/api/v1/Recipes/"+created.ID.String(), rec.Header().Get("Location"))

	for _, version := range APIVersions {
		rec = env.do(t, http.MethodGet, "/api/v"+version+"/Recipes/"+created.ID.String(), "", true)
		require.Equal(t, http.StatusOK, rec.Code)

		var got model.RecipeDTO
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &got))
		assert.Equal(t, "Fried eggs", got.Name)
		assert.Equal(t, []uuid.UUID{product}, got.ProductIDs)
	}
}

func TestRecipeCreateFailures(t *testing.T) {
	env := newTestEnv(t)
	env.createRecipe(t, "Fried eggs")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing body", "", http.StatusBadRequest},
		{"null body", "null", http.StatusBadRequest},
		{"malformed json", "{", http.StatusBadRequest},
		{"name taken", `{"name":"fried EGGS"}`, http.StatusBadRequest},
		{"missing name", `{"description":"x"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/Recipes", tc.body, true)
			assert.Equal(t, tc.want, rec.Code)

			res := decodeEnvelope(t, rec)
			assert.False(t, res.IsSuccess)
			assert.NotEmpty(t, res.ErrorMessages)
		})
	}
}

func TestRecipeGetFailures(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/Recipes/"+uuid.Nil.String(), "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/Recipes/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/Recipes/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).IsSuccess)
}

func TestRecipeListEmptyIsSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/Recipes", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeEnvelope(t, rec)
	assert.True(t, res.IsSuccess)
	assert.JSONEq(t, `[]`, string(res.Result))
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t)
	a, b, c, z := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	r1 := env.createRecipe(t, "R1", a)
	r2 := env.createRecipe(t, "R2", b, c)

	recommend := func(body string) *httptest.ResponseRecorder {
		return env.do(t, http.MethodPost, "/api/v1/Recipes/recommendations", body, true)
	}

	rec := recommend(`["` + a.String() + `","` + c.String() + `"]`)
	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.RecipeDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &got))
	require.Len(t, got, 2)
	assert.Equal(t, r1.ID, got[0].ID)
	assert.Equal(t, r2.ID, got[1].ID)

	rec = recommend(`["` + z.String() + `"]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Result))

	rec = recommend(`[]`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Result))

	rec = recommend("")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecipeReplace(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, "Fried eggs")
	path := "/api/v1/Recipes/" + created.ID.String()

	rec := env.do(t, http.MethodPut, path, `{"id":"`+created.ID.String()+`","name":"Boiled eggs"}`, true)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodPut, path, `{"id":"`+uuid.NewString()+`","name":"Boiled eggs"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, path, "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, path, "", true)
	var got model.RecipeDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &got))
	assert.Equal(t, "Boiled eggs", got.Name)
	assert.NotNil(t, got.UpdatedAt)
}

func TestRecipePatch(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, "Fried eggs")
	path := "/api/v1/Recipes/" + created.ID.String()

	rec := env.do(t, http.MethodPatch, path, `[{"op":"replace","path":"/name","value":"Poached eggs"}]`, true)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPatch, path, `[{"op":"replace","path":"/name","value":"Omelette"},{"op":"remove","path":"/rating"}]`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeEnvelope(t, rec)
	assert.False(t, res.IsSuccess)
	assert.Len(t, res.ErrorMessages, 1)

	rec = env.do(t, http.MethodGet, path, "", true)
	var got model.RecipeDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &got))
	assert.Equal(t, "Poached eggs", got.Name)
}

func TestRecipePatchFailures(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, "Fried eggs")
	doc := `[{"op":"replace","path":"/name","value":"x"}]`

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"nil id", "/api/v1/Recipes/" + uuid.Nil.String(), doc, http.StatusBadRequest},
		{"missing patch", "/api/v1/Recipes/" + created.ID.String(), "", http.StatusBadRequest},
		{"empty patch", "/api/v1/Recipes/" + created.ID.String(), "[]", http.StatusBadRequest},
		{"missing entity", "/api/v1/Recipes/" + uuid.NewString(), doc, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, tc.path, tc.body, true)
			assert.Equal(t, tc.want, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).IsSuccess)
		})
	}
}

func TestRecipeDelete(t *testing.T) {
	env := newTestEnv(t)
	created := env.createRecipe(t, "Fried eggs")
	path := "/api/v2/Recipes/" + created.ID.String()

	rec := env.do(t, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v2/Recipes/"+uuid.Nil.String(), "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/Products", `{"name":"Potato","kcal":15,"mass":0.2}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.ProductDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &created))
	path := "/api/v1/Products/" + created.ID.String()
	assert.Equal(t, path, rec.Header().Get("Location"))

	rec = env.do(t, http.MethodPost, "/api/v1/Products", `{"name":"POTATO"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPatch, path, `[{"op":"replace","path":"/kcal","value":77}]`, true)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, path, "", true)
	var got model.ProductDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &got))
	assert.Equal(t, 77, got.Kcal)

	rec = env.do(t, http.MethodGet, "/api/v1/Products", "", true)
	var list []model.ProductDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &list))
	assert.Len(t, list, 1)

	rec = env.do(t, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	registration := `{"name":"Cook","email":"cook@example.com","password":"password123"}`

	rec := env.do(t, http.MethodPost, "/api/v1/UsersAuth/register", registration, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var user model.UserDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &user))
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(t, http.MethodPost, "/api/v1/UsersAuth/register", registration, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).IsSuccess)

	rec = env.do(t, http.MethodPost, "/api/v1/UsersAuth/login", `{"email":"cook@example.com","password":"wrong"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeEnvelope(t, rec)
	assert.False(t, res.IsSuccess)
	assert.NotContains(t, string(res.Result), "token")

	rec = env.do(t, http.MethodPost, "/api/v1/UsersAuth/login", `{"email":"cook@example.com","password":"password123"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login model.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Result, &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/Recipes", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	out := httptest.NewRecorder()
	env.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}
