package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// How long the in-progress lock lives if the handler never finishes.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// Idempotency replays the stored response of a mutating request retried with
// the same Ax-Request-Id. The key is method + path + user id + request id, so
// it must run after Identity. Server errors are not stored, which lets the
// client retry them.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return errJSON(c, http.StatusBadRequest, "missing "+HeaderRequestID)
			}
			if !validReqID(reqID) {
				return errJSON(c, http.StatusBadRequest, "invalid "+HeaderRequestID+" format")
			}

			reqAt, err := parseAxRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return errJSON(c, http.StatusBadRequest, err.Error())
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return errJSON(c, http.StatusBadRequest, HeaderRequestAt+" too skewed")
			}

			userID := UserID(c)
			if userID == "" {
				return errJSON(c, http.StatusUnauthorized, "missing "+HeaderUserID)
			}

			var body []byte
			if req.Body != nil {
				// the body limiter, when installed, fails the read past its cap
				b, err := io.ReadAll(req.Body)
				if err != nil {
					var he *echo.HTTPError
					if errors.As(err, &he) {
						return errJSON(c, he.Code, http.StatusText(he.Code))
					}
					return errJSON(c, http.StatusBadRequest, "unreadable request body")
				}
				body = b
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(method, req.URL.Path, userID, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				log.Error("idempotency store unavailable", zap.String("key", key), zap.Error(err))
				return errJSON(c, http.StatusServiceUnavailable, "idempotency store unavailable")
			}
			if !ok {
				cur, errLoad := loadEntry(ctx, rdb, key)
				if errLoad != nil {
					log.Warn("idempotency entry unreadable", zap.String("key", key), zap.Error(errLoad))
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return errJSON(c, http.StatusConflict, HeaderRequestID+" reused with different body")
				}
				if !cur.InProgress && cur.Code != 0 {
					ct := cur.ContentType
					if ct == "" {
						ct = echo.MIMEApplicationJSON
					}
					c.Response().Header().Set("Idempotent-Replay", "true")
					return c.Blob(cur.Code, ct, cur.Body)
				}
				return errJSON(c, http.StatusConflict, "request is already in progress")
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			bg := context.WithoutCancel(req.Context())
			if rec.code >= http.StatusInternalServerError {
				if err := release(bg, rdb, key); err != nil {
					log.Warn("idempotency release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			final := idempEntry{
				Code:        rec.code,
				ContentType: rec.Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := saveFinal(bg, rdb, key, final, ttl); err != nil {
				log.Warn("idempotency save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}
