package errx_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/gofiber/fiber/v2"
)

var (
	testRegistry = errx.NewRegistry("TEST")
	errMissing   = testRegistry.Register("MISSING", errx.TypeNotFound, http.StatusNotFound, "thing not found")
	errOther     = testRegistry.Register("OTHER", errx.TypeConflict, http.StatusConflict, "other")
)

func TestRegistry_PrefixesCodes(t *testing.T) {
	if errMissing.Code != "TEST_MISSING" {
		t.Fatalf("code = %q", errMissing.Code)
	}
	got, ok := testRegistry.Get("MISSING")
	if !ok || got != errMissing {
		t.Fatalf("Get(MISSING) = %v, %v", got, ok)
	}
	if len(testRegistry.Codes()) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(testRegistry.Codes()))
	}
}

func TestHasCode_WalksChain(t *testing.T) {
	cause := errors.New("disk on fire")
	inner := testRegistry.NewWithCause(errMissing, cause)
	outer := testRegistry.NewWithCause(errOther, inner)

	if !errx.HasCode(outer, errMissing) {
		t.Fatal("expected nested code to be found")
	}
	if !errx.HasCode(outer, errOther) {
		t.Fatal("expected outer code to be found")
	}
	if errx.HasCode(cause, errMissing) {
		t.Fatal("plain error should not carry a code")
	}
	if !errors.Is(outer, cause) {
		t.Fatal("expected root cause in chain")
	}
}

func TestWrap_KeepsRegisteredCode(t *testing.T) {
	base := testRegistry.New(errMissing).WithDetail("id", "42")
	wrapped := errx.Wrap(base, "lookup failed", errx.TypeInternal)

	if wrapped.Code != "TEST_MISSING" {
		t.Fatalf("code = %q", wrapped.Code)
	}
	if wrapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("status = %d", wrapped.HTTPStatus)
	}
	if wrapped.Details["id"] != "42" {
		t.Fatalf("details = %v", wrapped.Details)
	}
	if errx.Wrap(nil, "x", errx.TypeInternal) != nil {
		t.Fatal("wrapping nil should return nil")
	}
}

func TestToResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"registered", testRegistry.New(errMissing), http.StatusNotFound, "TEST_MISSING"},
		{"fiber", fiber.NewError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "FIBER_ERROR"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := errx.ToResponse(tt.err)
			if resp.Status != tt.status || resp.Code != tt.code {
				t.Fatalf("got %d %s, want %d %s", resp.Status, resp.Code, tt.status, tt.code)
			}
		})
	}
}

func TestFiberErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return testRegistry.New(errMissing).WithDetail("id", "7")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	var got errx.Response
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if got.Code != "TEST_MISSING" || got.Details["id"] != "7" {
		t.Fatalf("body = %s", body)
	}
}

func TestTypeHTTPStatus(t *testing.T) {
	cases := map[errx.Type]int{
		errx.TypeValidation:  http.StatusBadRequest,
		errx.TypeExternal:    http.StatusBadGateway,
		errx.TypeUnavailable: http.StatusServiceUnavailable,
		errx.TypeInternal:    http.StatusInternalServerError,
		errx.Type("ODD"):     http.StatusInternalServerError,
	}
	for typ, want := range cases {
		if got := errx.New("x", typ).HTTPStatus; got != want {
			t.Errorf("%s: status %d, want %d", typ, got, want)
		}
	}
}
