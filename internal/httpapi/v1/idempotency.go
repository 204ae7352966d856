package v1

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

type storedResponse struct {
	BodyHash string
	Status   int
	Payload  []byte
	At       time.Time
}

func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// captureWriter keeps a copy of the response for replay.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// idempotent replays the stored response when a request repeats an
// Idempotency-Key with the same body, and answers 409 when the body differs.
// Server errors are not stored so the client can retry them.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			badRequest(w, "read body: "+err.Error())
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		scope := r.Method + " " + chi.URLParam(r, "id") + " " + key
		hash := hashBytes(body)

		s.idemMu.Lock()
		prev, ok := s.idem[scope]
		if ok && time.Since(prev.At) > idempotencyTTL {
			ok = false
		}
		if !ok {
			// in-flight marker; Status 0 until the handler finishes
			s.idem[scope] = storedResponse{BodyHash: hash, At: time.Now()}
		}
		s.idemMu.Unlock()
		if ok {
			if prev.BodyHash != hash {
				writeErr(w, http.StatusConflict, "idempotency key reused with a different body", "idempotency_mismatch")
				return
			}
			if prev.Status == 0 {
				writeErr(w, http.StatusConflict, "a request with this idempotency key is in progress", "idempotency_in_progress")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(prev.Status)
			_, _ = w.Write(prev.Payload)
			return
		}

		cw := &captureWriter{ResponseWriter: w}
		next.ServeHTTP(cw, r)
		s.idemMu.Lock()
		defer s.idemMu.Unlock()
		if cw.status == 0 || cw.status >= http.StatusInternalServerError {
			delete(s.idem, scope)
			return
		}
		now := time.Now()
		for k, v := range s.idem {
			if v.Status != 0 && now.Sub(v.At) > idempotencyTTL {
				delete(s.idem, k)
			}
		}
		s.idem[scope] = storedResponse{BodyHash: hash, Status: cw.status, Payload: cw.buf.Bytes(), At: now}
	})
}
