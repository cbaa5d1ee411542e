package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"userapi/internal/config"
	"userapi/internal/http/handlers"
	"userapi/internal/repos"
)

// newTestApp builds the real app over a fresh in-memory database. tweak may
// adjust the config before anything is wired.
func newTestApp(t *testing.T, tweak func(*config.Config)) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBDSN = ":memory:"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.RateLimitMax = 0
	cfg.CreateRateMax = 0
	if tweak != nil {
		tweak(&cfg)
	}
	db, err := repos.OpenDB(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps, err := handlers.NewDeps(db, cfg)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	return handlers.NewApp(cfg, deps), db
}

type apiResponse struct {
	Error   bool            `json:"error"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Users   json.RawMessage `json:"users"`
	User    json.RawMessage `json:"user"`
}

type userJSON struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	School   string `json:"school"`
	Password string `json:"password"`
	Hash     string `json:"password_hash"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, apiResponse) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, apiResponse) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("%s %s: body is not a JSON envelope: %s", req.Method, req.URL.Path, raw)
	}
	return resp, out
}

func createPayload(email string) map[string]string {
	return map[string]string{"email": email, "password": "Abcdef1!", "name": "A", "school": "S"}
}

func countUsers(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	return n
}
