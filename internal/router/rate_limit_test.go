package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimiterTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"
	return c, w
}

func TestKeyByIPAndJSONField(t *testing.T) {
	c, _ := newLimiterTestContext(t, `{"username":" Admin "}`)

	key := KeyByIPAndJSONField("username")(c)
	if key != "admin|1.2.3.4" {
		t.Fatalf("key want admin|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Admin") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "missing field", body: `{"password":"x"}`},
		{name: "blank field", body: `{"username":"   "}`},
		{name: "invalid json", body: `{"username":`},
		{name: "empty body", body: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newLimiterTestContext(t, tc.body)
			if key := KeyByIPAndJSONField("username")(c); key != "1.2.3.4" {
				t.Fatalf("key want bare ip got %s", key)
			}
		})
	}
}

func TestLimiterKey(t *testing.T) {
	c, _ := newLimiterTestContext(t, "")

	if key := limiterKey(c, RateLimitRule{}, nil); key != "1.2.3.4" {
		t.Fatalf("nil keyFunc should fall back to client ip, got %s", key)
	}

	blank := func(*gin.Context) string { return "   " }
	if key := limiterKey(c, RateLimitRule{}, blank); key != "1.2.3.4" {
		t.Fatalf("blank key should fall back to client ip, got %s", key)
	}

	fixed := func(*gin.Context) string { return "admin" }
	if key := limiterKey(c, RateLimitRule{Prefix: "login"}, fixed); key != "login:admin" {
		t.Fatalf("prefixed key want login:admin got %s", key)
	}
}

func TestRetryMessage(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60}
	if msg := rule.retryMessage(5); msg != "too many requests, retry in 5 seconds" {
		t.Fatalf("ttl message mismatch: %s", msg)
	}
	if msg := rule.retryMessage(0); !strings.Contains(msg, "60") {
		t.Fatalf("zero ttl should fall back to window length, got %s", msg)
	}

	rule = RateLimitRule{Message: "wait %d s"}
	if msg := rule.retryMessage(-1); msg != "wait 1 s" {
		t.Fatalf("floor message mismatch: %s", msg)
	}
}

func TestRateLimitMiddlewareBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rules := []RateLimitRule{
		{WindowSeconds: 60, MaxRequests: 1},
		{WindowSeconds: 0, MaxRequests: 5},
	}
	for _, rule := range rules {
		r := gin.New()
		r.Use(RateLimitMiddleware(nil, rule, KeyByIP))
		r.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status want 200 got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("expected handler response body, got %s", w.Body.String())
		}
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "int32", input: int32(-7), want: -7, ok: true},
		{name: "uint8", input: uint8(12), want: 12, ok: true},
		{name: "uint64", input: uint64(99), want: 99, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
		{name: "nil", input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
