package auth

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSecret(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"default", DefaultSecretBytes, false},
		{"minimum", MinSecretBytes, false},
		{"larger", 48, false},
		{"too short", MinSecretBytes - 1, true},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := GenerateSecret(tt.size)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("GenerateSecret(%d) = %q, want error", tt.size, secret)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateSecret(%d) error = %v", tt.size, err)
			}
			raw, err := hex.DecodeString(secret)
			if err != nil {
				t.Fatalf("GenerateSecret(%d) = %q is not hex: %v", tt.size, secret, err)
			}
			if len(raw) != tt.size {
				t.Errorf("decoded length = %d, want %d", len(raw), tt.size)
			}
		})
	}
}

func TestGenerateSecret_Unique(t *testing.T) {
	a, _ := GenerateSecret(DefaultSecretBytes)
	b, _ := GenerateSecret(DefaultSecretBytes)
	if a == b {
		t.Error("GenerateSecret produced the same secret twice")
	}
}

func TestGenerateSecret_AcceptedByGate(t *testing.T) {
	secret, err := GenerateSecret(DefaultSecretBytes)
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}

	handler := APIKey(secret)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set(HeaderAPIKey, secret)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a generated secret", rec.Code)
	}
}
