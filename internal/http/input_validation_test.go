package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"userapi/internal/config"
)

// reject missing and malformed inputs before touching storage
func TestCreateValidation(t *testing.T) {
	app, db := newTestApp(t, nil)

	cases := []struct {
		name string
		body map[string]string
		msg  string
	}{
		{"all missing", map[string]string{}, "Required Parameters email, password, name, school are missing"},
		{"some missing", map[string]string{"email": "a@b.com", "password": "Abcdef1!"}, "Required Parameters name, school are missing"},
		{"empty counts as missing", map[string]string{"email": "a@b.com", "password": "Abcdef1!", "name": "", "school": "S"}, "Required Parameters name are missing"},
		{"bad email", map[string]string{"email": "not-an-email", "password": "Abcdef1!", "name": "A", "school": "S"}, "Bad email format"},
		{"weak password", map[string]string{"email": "a@b.com", "password": "password", "name": "A", "school": "S"}, "Bad password format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/user", tc.body)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("want 422, got %d", resp.StatusCode)
			}
			if !body.Error || body.Message != tc.msg {
				t.Fatalf("want %q, got %+v", tc.msg, body)
			}
		})
	}
	if n := countUsers(t, db); n != 0 {
		t.Fatalf("invalid payloads stored %d rows", n)
	}
}

func TestUpdateValidation(t *testing.T) {
	app, _ := newTestApp(t, nil)
	doJSON(t, app, "POST", "/user", createPayload("a@b.com"))

	resp, body := doJSON(t, app, "PUT", "/user/1", map[string]string{"name": "B"})
	if resp.StatusCode != http.StatusUnprocessableEntity || body.Message != "Required Parameters email, school are missing" {
		t.Fatalf("missing: %d %+v", resp.StatusCode, body)
	}
	resp, body = doJSON(t, app, "PUT", "/user/1", map[string]string{"email": "nope", "name": "B", "school": "S"})
	if resp.StatusCode != http.StatusUnprocessableEntity || body.Message != "Bad email format" {
		t.Fatalf("bad email: %d %+v", resp.StatusCode, body)
	}
}

func TestMalformedJSON(t *testing.T) {
	app, _ := newTestApp(t, nil)
	req := httptest.NewRequest("POST", "/user", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusUnprocessableEntity || !body.Error || body.Message != "Invalid request body" {
		t.Fatalf("malformed json: %d %+v", resp.StatusCode, body)
	}
}

func TestEmptyJSONBodyReportsMissing(t *testing.T) {
	app, _ := newTestApp(t, nil)
	req := httptest.NewRequest("PUT", "/user/1", nil)
	req.Header.Set("Content-Type", "application/json")
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusUnprocessableEntity || body.Message != "Required Parameters email, name, school are missing" {
		t.Fatalf("empty body: %d %+v", resp.StatusCode, body)
	}
}

func TestFormBody(t *testing.T) {
	app, _ := newTestApp(t, nil)

	form := url.Values{"email": {"form@b.com"}, "password": {"Abcdef1!"}, "name": {"F"}, "school": {"S"}}
	req := httptest.NewRequest("POST", "/user", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("urlencoded create: %d %+v", resp.StatusCode, body)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("email", "form@b.com")
	_ = mw.WriteField("name", "G")
	_ = mw.WriteField("school", "T")
	_ = mw.Close()
	req = httptest.NewRequest("PUT", "/user/1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, body = do(t, app, req)
	if resp.StatusCode != http.StatusOK || body.Status != "User Updated!" {
		t.Fatalf("multipart update: %d %+v", resp.StatusCode, body)
	}
}

// Requests without a recognised body type read fields from the query string.
func TestQueryStringFallback(t *testing.T) {
	app, _ := newTestApp(t, nil)

	q := url.Values{"email": {"q@b.com"}, "password": {"Abcdef1!"}, "name": {"Q"}, "school": {"S"}}
	req := httptest.NewRequest("POST", "/user?"+q.Encode(), nil)
	resp, body := do(t, app, req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("query create: %d %+v", resp.StatusCode, body)
	}

	req = httptest.NewRequest("POST", "/user?email=q2@b.com", strings.NewReader("ignored"))
	req.Header.Set("Content-Type", "text/plain")
	resp, body = do(t, app, req)
	if resp.StatusCode != http.StatusUnprocessableEntity || body.Message != "Required Parameters password, name, school are missing" {
		t.Fatalf("text/plain: %d %+v", resp.StatusCode, body)
	}
}

func TestConfiguredPatterns(t *testing.T) {
	app, _ := newTestApp(t, func(c *config.Config) {
		c.EmailPattern = `^[a-z]+@school\.edu$`
		c.PasswordPattern = `^[a-z]{6,}$`
	})

	resp, body := doJSON(t, app, "POST", "/user", createPayload("a@b.com"))
	if resp.StatusCode != http.StatusUnprocessableEntity || body.Message != "Bad email format" {
		t.Fatalf("custom email pattern: %d %+v", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, app, "POST", "/user", map[string]string{
		"email": "kid@school.edu", "password": "lowercase", "name": "K", "school": "S",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("custom password pattern: want 201, got %d", resp.StatusCode)
	}
}
