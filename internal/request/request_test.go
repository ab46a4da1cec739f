package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		wantIP  string
	}{
		{"x-forwarded-for", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "", "1.2.3.4"},
		{"x-forwarded-for first", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8 "}, "", "1.2.3.4"},
		{"x-real-ip", map[string]string{"X-Real-IP": "9.9.9.9"}, "", "9.9.9.9"},
		{"remote addr", nil, "10.0.0.1:12345", "10.0.0.1:12345"},
		{"xff over xri", map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "9.9.9.9"}, "", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if tt.remote != "" {
				r.RemoteAddr = tt.remote
			}
			got := ClientIP(r)
			if got != tt.wantIP {
				t.Errorf("ClientIP() = %q, want %q", got, tt.wantIP)
			}
		})
	}
}

func TestDateParam(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{"valid", "?date=2025-11-02", "2025-11-02", false},
		{"missing", "", "", true},
		{"wrong layout", "?date=02-11-2025", "", true},
		{"not a date", "?date=tomorrow", "", true},
		{"impossible date", "?date=2025-13-40", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/"+tt.query, nil)
			got, err := DateParam(r, "date")
			if (err != nil) != tt.wantErr {
				t.Fatalf("DateParam() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DateParam() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoolParam(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"true", "?flag=true", true},
		{"one", "?flag=1", true},
		{"yes", "?flag=yes", true},
		{"uppercase", "?flag=TRUE", true},
		{"false", "?flag=false", false},
		{"absent", "", false},
		{"garbage", "?flag=maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/"+tt.query, nil)
			if got := BoolParam(r, "flag"); got != tt.want {
				t.Errorf("BoolParam() = %v, want %v", got, tt.want)
			}
		})
	}
}
