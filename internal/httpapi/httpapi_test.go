package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"gtotp/pkg/authenticator"
	"gtotp/pkg/config"
	"gtotp/pkg/i18n"
	"gtotp/pkg/totp"
)

var rfcSecret = []byte("12345678901234567890")

type testEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []string        `json:"errors"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	engine, err := totp.New(totp.DefaultConfig())
	if err != nil {
		t.Fatalf("totp.New: %v", err)
	}
	auth := authenticator.New(engine, authenticator.Options{
		Issuer: "gtotp",
		Host:   "teste.com",
		Rand:   bytes.NewReader(rfcSecret),
		Now:    func() time.Time { return time.Unix(59, 0) },
	})
	h, err := NewHandler(auth, config.Server{AllowedOrigins: []string{"*"}})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status %d want %d: %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrors(t *testing.T, env testEnvelope, want ...string) {
	t.Helper()
	if !slices.Equal(env.Errors, want) {
		t.Fatalf("errors %q want %q", env.Errors, want)
	}
}

func TestGenerate(t *testing.T) {
	h := newTestHandler(t)
	rec, env := do(t, h, http.MethodPost, "/api/auth/generate", `{"key":"alice"}`)
	expectStatus(t, rec, http.StatusOK)
	if len(env.Errors) != 0 {
		t.Fatalf("unexpected errors %q", env.Errors)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("missing request id header")
	}

	var data generateResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Key != "alice" || data.Host != "teste.com" {
		t.Fatalf("key/host %q %q", data.Key, data.Host)
	}
	if data.Secret != base64.StdEncoding.EncodeToString(rfcSecret) {
		t.Fatalf("secret %s", data.Secret)
	}
	if data.Encoded != "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ" {
		t.Fatalf("encoded %s", data.Encoded)
	}
	if !strings.Contains(data.URL, "otpauth://totp/gtotp:alice@teste.com?") {
		t.Fatalf("url %s", data.URL)
	}
	if !strings.HasPrefix(data.QRCode, "data:image/png;base64,") {
		t.Fatalf("qr code is not a png data url: %.40s", data.QRCode)
	}
}

func TestGenerateBlankKey(t *testing.T) {
	h := newTestHandler(t)
	for _, body := range []string{`{"key":""}`, `{"key":"   "}`, `{}`} {
		rec, env := do(t, h, http.MethodPost, "/api/auth/generate", body)
		expectStatus(t, rec, http.StatusBadRequest)
		expectErrors(t, env, "Required parameter key is empty")
		if string(env.Data) != "null" {
			t.Fatalf("%s: data %s want null", body, env.Data)
		}
	}
}

func TestGenerateBlankKeyPortuguese(t *testing.T) {
	h := newTestHandler(t)
	rec, env := do(t, h, http.MethodPost, "/api/auth/generate", `{"key":""}`, "Accept-Language", "pt-BR,pt;q=0.9")
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrors(t, env, "Parametro necessario key se encontra vazio")
}

func TestGenerateMalformedBody(t *testing.T) {
	h := newTestHandler(t)
	for _, body := range []string{``, `{`, `{"key":"a"} {"key":"b"}`, `[1,2]`} {
		rec, env := do(t, h, http.MethodPost, "/api/auth/generate", body)
		expectStatus(t, rec, http.StatusBadRequest)
		expectErrors(t, env, "Invalid request body")
	}
}

func TestVerify(t *testing.T) {
	h := newTestHandler(t)
	secret := base64.StdEncoding.EncodeToString(rfcSecret)

	for _, code := range []string{"287082", "287 082"} {
		rec, env := do(t, h, http.MethodPost, "/api/auth/verify", `{"secret":"`+secret+`","code":"`+code+`"}`)
		expectStatus(t, rec, http.StatusOK)
		if string(env.Data) != "true" {
			t.Fatalf("%q: data %s", code, env.Data)
		}
		expectErrors(t, env)
	}
}

func TestVerifyMismatchIsStillOK(t *testing.T) {
	h := newTestHandler(t)
	secret := base64.StdEncoding.EncodeToString(rfcSecret)
	rec, env := do(t, h, http.MethodPost, "/api/auth/verify", `{"secret":"`+secret+`","code":"000000"}`)
	expectStatus(t, rec, http.StatusOK)
	if string(env.Data) != "false" {
		t.Fatalf("data %s", env.Data)
	}
	expectErrors(t, env, "Code is not valid")
}

func TestVerifyMissingFields(t *testing.T) {
	h := newTestHandler(t)
	rec, env := do(t, h, http.MethodPost, "/api/auth/verify", `{}`)
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrors(t, env,
		"Required parameter secret is empty",
		"Required parameter code is empty",
	)

	secret := base64.StdEncoding.EncodeToString(rfcSecret)
	rec, env = do(t, h, http.MethodPost, "/api/auth/verify", `{"secret":"`+secret+`","code":" - "}`)
	expectStatus(t, rec, http.StatusBadRequest)
	expectErrors(t, env, "Required parameter code is empty")
}

func TestVerifyBadSecretEncoding(t *testing.T) {
	h := newTestHandler(t)
	rec, env := do(t, h, http.MethodPost, "/api/auth/verify", `{"secret":"not base64!","code":"123456"}`)
	expectStatus(t, rec, http.StatusBadRequest)
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0], "secret") {
		t.Fatalf("errors %q", env.Errors)
	}
}

func TestHealthAndFallbacks(t *testing.T) {
	h := newTestHandler(t)

	rec, env := do(t, h, http.MethodGet, "/health", "")
	expectStatus(t, rec, http.StatusOK)
	var health map[string]string
	if err := json.Unmarshal(env.Data, &health); err != nil || health["status"] != "ok" {
		t.Fatalf("health data %s: %v", env.Data, err)
	}

	rec, env = do(t, h, http.MethodGet, "/nope", "")
	expectStatus(t, rec, http.StatusNotFound)
	expectErrors(t, env, "Endpoint not found")

	rec, env = do(t, h, http.MethodGet, "/api/auth/verify", "")
	expectStatus(t, rec, http.StatusMethodNotAllowed)
	expectErrors(t, env, "Method not allowed")
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestHandler(t)
	rec, _ := do(t, h, http.MethodGet, "/health", "", HeaderRequestID, "abc-123")
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id %q", got)
	}

	rec, _ = do(t, h, http.MethodGet, "/health", "", HeaderRequestID, "  ")
	if got := rec.Header().Get(HeaderRequestID); len(got) != 36 {
		t.Fatalf("generated request id %q is not a uuid", got)
	}
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t)
	rec, _ := do(t, h, http.MethodGet, "/health", "", "Origin", "https://app.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin %q", got)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/verify", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, req)
	expectStatus(t, pre, http.StatusNoContent)
	if got := pre.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("preflight allow origin %q", got)
	}
}

func TestRecoverWritesJSON(t *testing.T) {
	r := NewRouter(withRecover)
	r.GET("/boom", func(*http.Request) (Response, error) {
		panic("boom")
	})
	rec, env := do(t, r, http.MethodGet, "/boom", "")
	expectStatus(t, rec, http.StatusInternalServerError)
	expectErrors(t, env, "Internal server error")
}

func TestErrorWithoutStatusIsInternal(t *testing.T) {
	r := NewRouter()
	r.GET("/teapot", func(*http.Request) (Response, error) {
		return Response{}, &Error{status: http.StatusTeapot, key: i18n.MsgInvalidBody}
	})
	r.GET("/bare", func(*http.Request) (Response, error) {
		return Response{}, &Error{key: i18n.MsgInvalidBody}
	})

	rec, env := do(t, r, http.MethodGet, "/teapot", "")
	expectStatus(t, rec, http.StatusTeapot)
	expectErrors(t, env, "Invalid request body")

	rec, env = do(t, r, http.MethodGet, "/bare", "")
	expectStatus(t, rec, http.StatusInternalServerError)
	expectErrors(t, env, "Invalid request body")
}

func TestServerShutsDownOnCancel(t *testing.T) {
	engine := totp.MustNew(totp.DefaultConfig())
	srv, err := NewServer(authenticator.New(engine, authenticator.Options{}), config.Server{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
