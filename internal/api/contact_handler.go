package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Cabdinasir64/portfolio-backend/internal/contact"
	"github.com/Cabdinasir64/portfolio-backend/internal/delivery"
)

// defaultMaxBodyBytes caps a contact submission body.
const defaultMaxBodyBytes = 64 << 10

// ContactSubmitter runs a submission through the contact pipeline.
type ContactSubmitter interface {
	Submit(ctx context.Context, sub contact.Submission) (*delivery.Outcome, error)
}

// ContactHandler handles POST /contact.
// A body that is not a JSON object counts as a submission with every field
// absent, so it is answered with the missing-field message.
func ContactHandler(svc ContactSubmitter, maxBodyBytes int64) http.HandlerFunc {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var sub contact.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			sub = contact.Submission{}
		}

		_, err := svc.Submit(r.Context(), sub)
		status, message := contact.Response(err)
		respondMessage(w, status, message)
	}
}
