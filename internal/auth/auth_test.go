package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sessionRequest(cookieValue string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookieValue})
	return req
}

func TestSessionRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateSession(rec, 42)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	uid, ok := ParseSession(sessionRequest(c.Value))
	if !ok || uid != 42 {
		t.Fatalf("ParseSession = %d/%v, want 42/true", uid, ok)
	}
}

func TestParseSessionRejectsTampering(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateSession(rec, 42)
	value := rec.Result().Cookies()[0].Value

	// Swap the user id but keep the original signature.
	parts := strings.SplitN(value, ".", 2)
	if _, ok := ParseSession(sessionRequest("7." + parts[1])); ok {
		t.Fatal("forged user id accepted")
	}
	if _, ok := ParseSession(sessionRequest(parts[0] + ".AAAA")); ok {
		t.Fatal("forged signature accepted")
	}
	if _, ok := ParseSession(sessionRequest("garbage")); ok {
		t.Fatal("malformed cookie accepted")
	}
	if _, ok := ParseSession(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("missing cookie accepted")
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(RequireAuth(next))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Unauthorized") {
		t.Fatalf("body = %s", rec.Body.String())
	}

	cookieRec := httptest.NewRecorder()
	CreateSession(cookieRec, 7)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(cookieRec.Result().Cookies()[0].Value))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("authenticated = %d, want 204", rec.Code)
	}
}

func TestRequireAuthConsultsVerifier(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid == 7 })
	t.Cleanup(func() { SetUserVerifier(nil) })

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Middleware(RequireAuth(next))

	ok := httptest.NewRecorder()
	CreateSession(ok, 7)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(ok.Result().Cookies()[0].Value))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("verified user = %d, want 204", rec.Code)
	}

	gone := httptest.NewRecorder()
	CreateSession(gone, 8)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(gone.Result().Cookies()[0].Value))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unverified user = %d, want 401", rec.Code)
	}
}
