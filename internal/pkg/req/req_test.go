package req

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
)

func TestBindJSON(t *testing.T) {
	type input struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
	}{
		{name: "valid", contentType: "application/json", body: `{"name":"mira"}`},
		{name: "missing content type", contentType: "text/plain", body: `{}`, wantCode: errs.ErrUnsupportedMediaType},
		{name: "malformed json", contentType: "application/json", body: `{"name":`, wantCode: errs.ErrInvalidJSONFormat},
		{name: "unknown field", contentType: "application/json", body: `{"nope":1}`, wantCode: errs.ErrInvalidJSONFormat},
		{name: "trailing content", contentType: "application/json", body: `{"name":"a"}{"name":"b"}`, wantCode: errs.ErrExtraContentInBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			var dst input
			customErr := BindJSON(r, &dst)

			if tt.wantCode == 0 {
				if customErr != nil {
					t.Fatalf("BindJSON returned %v, want nil", customErr)
				}
				return
			}
			if customErr == nil || customErr.Code != tt.wantCode {
				t.Fatalf("BindJSON returned %v, want code %d", customErr, tt.wantCode)
			}
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=25&include_read=true&bad=abc", nil)

	if got := QueryInt(r, "limit", 10); got != 25 {
		t.Errorf("QueryInt(limit) = %d, want 25", got)
	}
	if got := QueryInt(r, "missing", 10); got != 10 {
		t.Errorf("QueryInt(missing) = %d, want default 10", got)
	}
	if got := QueryInt(r, "bad", 10); got != 10 {
		t.Errorf("QueryInt(bad) = %d, want default 10", got)
	}
	if got := QueryBool(r, "include_read", false); !got {
		t.Error("QueryBool(include_read) = false, want true")
	}
	if got := QueryBool(r, "missing", true); !got {
		t.Error("QueryBool(missing) = false, want default true")
	}
}

func TestPathInt64(t *testing.T) {
	if v, customErr := PathInt64("42"); customErr != nil || v != 42 {
		t.Fatalf("PathInt64(42) = %d, %v", v, customErr)
	}
	for _, raw := range []string{"", "abc", "0", "-5", "1.5"} {
		if _, customErr := PathInt64(raw); customErr == nil {
			t.Errorf("PathInt64(%q) accepted invalid input", raw)
		}
	}
}
