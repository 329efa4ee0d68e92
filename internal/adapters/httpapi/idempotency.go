package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/app/apperr"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"
	"github.com/gunjanbelwal79/TRAVELTINDER/internal/ports/out/idempotency"
)

const idempotencyHeader = "Idempotency-Key"

// idemScope tracks one Idempotency-Key protected request.
//
// Rules:
//   - replay when the same user+key+route+bodyHash was already answered with 201
//   - reject with 409 when the same user+key+route arrives with a different bodyHash
type idemScope struct {
	meta idempotency.Fingerprint
	resp idempotency.Fingerprint
}

// beginIdempotent returns a nil scope when the request carries no key. When a stored
// response exists it is written to w and replayed is true.
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, user domain.UserID, route string, payload any) (scope *idemScope, replayed bool, err error) {
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key == "" || s.Idem == nil {
		return nil, false, nil
	}
	bodyHash, err := hashJSON(payload)
	if err != nil {
		return nil, false, err
	}
	ctx := r.Context()

	meta := idempotency.Fingerprint{
		Key:    idempotency.Key(key),
		User:   user,
		Method: r.Method,
		Route:  route,
	}
	if rec, ok, err := s.Idem.Get(ctx, meta); err != nil {
		return nil, false, err
	} else if ok {
		if string(rec.Body) != bodyHash {
			return nil, false, &apperr.Error{
				Status:  http.StatusConflict,
				Code:    "IDEMPOTENCY_KEY_REUSE",
				Message: "idempotency key reuse with different payload",
			}
		}
	} else {
		_ = s.Idem.Put(ctx, meta, idempotency.Record{
			StatusCode:  0,
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   s.Clock.Now(),
		})
	}

	resp := meta
	resp.BodyHash = bodyHash
	if rec, ok, err := s.Idem.Get(ctx, resp); err != nil {
		return nil, false, err
	} else if ok && rec.StatusCode == http.StatusCreated && strings.HasPrefix(rec.ContentType, "application/json") {
		w.Header().Set("Idempotent-Replayed", "true")
		writeRaw(w, rec.StatusCode, rec.ContentType, rec.Body)
		return nil, true, nil
	}
	return &idemScope{meta: meta, resp: resp}, false, nil
}

// finish stores a successful response for replay. It is a no-op on a nil scope.
func (s *Server) finishIdempotent(ctx context.Context, scope *idemScope, status int, body []byte) {
	if scope == nil || s.Idem == nil {
		return
	}
	_ = s.Idem.Put(ctx, scope.resp, idempotency.Record{
		StatusCode:  status,
		ContentType: "application/json",
		Body:        body,
		CreatedAt:   s.Clock.Now(),
	})
}

func hashJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
