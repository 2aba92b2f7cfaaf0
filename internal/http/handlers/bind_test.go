package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type bindProbe struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
	Data string `json:"data"`
}

func runBind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var probe bindProbe

	return w, BindJSON(c, &probe)
}

func TestBindJSONReportsFirstMissingField(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"empty object", `{}`, "Missing name"},
		{"name only", `{"name":"x"}`, "Missing type"},
		{"empty strings count as missing", `{"name":"","type":"file"}`, "Missing name"},
		{"empty body", ``, "Missing name"},
		{"malformed json", `{"name":`, "Missing name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := runBind(t, tc.body)

			if ok {
				t.Fatalf("expected bind to fail")
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tc.message {
				t.Fatalf("error = %v, want %q", body["error"], tc.message)
			}
		})
	}
}

func TestBindJSONAcceptsValidBody(t *testing.T) {
	w, ok := runBind(t, `{"name":"f.txt","type":"file"}`)

	if !ok {
		t.Fatalf("bind failed: %s", w.Body.String())
	}
	if w.Body.Len() != 0 {
		t.Fatalf("unexpected response body: %s", w.Body.String())
	}
}

func TestFlexIDAcceptsNumberAndString(t *testing.T) {
	cases := []struct {
		raw  string
		want flexID
	}{
		{`0`, 0},
		{`"0"`, 0},
		{`17`, 17},
		{`"17"`, 17},
		{`null`, 0},
		// junk coerces to the root rather than erroring
		{`"nope"`, 0},
	}

	for _, tc := range cases {
		var id flexID

		if err := json.Unmarshal([]byte(tc.raw), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if id != tc.want {
			t.Errorf("flexID(%s) = %d, want %d", tc.raw, id, tc.want)
		}
	}
}
