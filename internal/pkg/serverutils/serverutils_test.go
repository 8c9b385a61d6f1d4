package serverutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "diver@example.com",
		"role":  "authenticated",
		"exp":   exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func decode(t *testing.T, resp *http.Response) BaseResponse[any] {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out BaseResponse[any]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/api/me", NewJwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("me", fiber.Map{
			"id":    ctx.Locals(UserIDLocalKey),
			"email": ctx.Locals(UserEmailLocalKey),
		}))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "bad signature", header: "Bearer " + signToken(t, "another-secret-another-secret-12345", time.Now().Add(time.Hour)), want: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, testSecret, time.Now().Add(-time.Hour)), want: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + signToken(t, testSecret, time.Now().Add(time.Hour)), want: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			body := decode(t, resp)
			assert.Equal(t, tt.want == fiber.StatusOK, body.Success)
			if tt.want == fiber.StatusOK {
				data := body.Data.(map[string]interface{})
				assert.Equal(t, "user-1", data["id"])
				assert.Equal(t, "diver@example.com", data["email"])
			}
		})
	}
}

func TestSessionMiddlewareIssuesAndKeepsId(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware(SessionCookieConfig{MaxAge: time.Hour}))
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(SessionID(ctx))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	issued := string(body)
	_, err = uuid.Parse(issued)
	require.NoError(t, err)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, issued, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issued})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, issued, string(body))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.NotEqual(t, "forged", string(body))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/api/teapot", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/api/boom", func(ctx *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decode(t, resp).Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp).Message)
}
