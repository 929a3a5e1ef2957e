package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"tuka-portal/internal/domain/user"
	"tuka-portal/pkg/id"
)

// Keys set on echo.Context for an authenticated request.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

type SessionData struct {
	UserID uint64    `json:"user_id"`
	Role   user.Role `json:"role"`
}

type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionStore keeps sessions in redis under a random id carried by a cookie.
type SessionStore struct {
	rdb  *redis.Client
	opts SessionOptions
}

func NewSessionStore(rdb *redis.Client, opts SessionOptions) *SessionStore {
	if opts.CookieName == "" {
		opts.CookieName = "tuka_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 2 * time.Hour
	}
	return &SessionStore{rdb: rdb, opts: opts}
}

func sessionKey(id string) string { return "tuka:session:" + id }

func (s *SessionStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Create starts a fresh session for d and sets the cookie. Any session the
// request already carried is destroyed first.
func (s *SessionStore) Create(c echo.Context, d SessionData) error {
	ctx := c.Request().Context()
	if old, err := c.Cookie(s.opts.CookieName); err == nil && old.Value != "" {
		_ = s.rdb.Del(ctx, sessionKey(old.Value)).Err()
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	sid := id.NewID32()
	if err := s.rdb.Set(ctx, sessionKey(sid), raw, s.opts.TTL).Err(); err != nil {
		return err
	}
	c.SetCookie(s.cookie(sid, int(s.opts.TTL.Seconds())))
	return nil
}

// Destroy deletes the session and expires the cookie.
func (s *SessionStore) Destroy(c echo.Context) error {
	ck, err := c.Cookie(s.opts.CookieName)
	if err == nil && ck.Value != "" {
		if err := s.rdb.Del(c.Request().Context(), sessionKey(ck.Value)).Err(); err != nil {
			return err
		}
	}
	c.SetCookie(s.cookie("", -1))
	return nil
}

func (s *SessionStore) load(ctx context.Context, id string) (*SessionData, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d SessionData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, nil
	}
	return &d, nil
}

// Load resolves the session cookie and stores user id and role on the
// context. Unknown or expired sessions leave the request anonymous.
func (s *SessionStore) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(s.opts.CookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}
			d, err := s.load(c.Request().Context(), ck.Value)
			if err != nil {
				slog.Error("session load failed", "err", err)
				return next(c)
			}
			if d != nil && d.UserID != 0 {
				c.Set(ContextUserID, d.UserID)
				c.Set(ContextRole, d.Role)
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok && id != 0
}

func Role(c echo.Context) user.Role {
	r, _ := c.Get(ContextRole).(user.Role)
	return r
}

func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserID(c); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			return next(c)
		}
	}
}

// RequireRole admits logged-in users whose role is one of roles.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserID(c); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "login required"})
			}
			have := Role(c)
			for _, r := range roles {
				if have == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
		}
	}
}
