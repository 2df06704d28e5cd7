package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	SessionCookieName  = "botsales.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour

	sessionIDLocal   = "session_id"
	sessionUserLocal = "session_user"
)

type SessionConfig struct {
	Secret            string
	AllowCrossSiteDev bool
	IsProduction      bool
}

// SessionUser is the identity stored in Redis under the session id.
type SessionUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type sessionData struct {
	User *SessionUser `json:"user,omitempty"`
}

// SessionStore keeps sessions in Redis. Cookie values are "s:<id>.<signature>" when a
// secret is configured, plain ids otherwise.
type SessionStore struct {
	RDB    *redis.Client
	Config SessionConfig
}

func NewSessionStore(rdb *redis.Client, cfg SessionConfig) *SessionStore {
	return &SessionStore{RDB: rdb, Config: cfg}
}

// Middleware loads the session user into Locals. Missing or tampered cookies yield an
// anonymous request.
func (s *SessionStore) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := s.unsign(c.Cookies(SessionCookieName))
		c.Locals(sessionIDLocal, sid)
		if sid != "" {
			b, err := s.RDB.Get(c.UserContext(), SessionRedisPrefix+sid).Bytes()
			switch {
			case err == nil:
				var data sessionData
				if json.Unmarshal(b, &data) == nil && data.User != nil {
					SetCurrentUser(c, data.User)
				}
			case !errors.Is(err, redis.Nil):
				log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("Session lookup failed")
			}
		}
		return c.Next()
	}
}

// Login starts a fresh session for user and sets the cookie.
func (s *SessionStore) Login(c *fiber.Ctx, user SessionUser) error {
	if old := GetSessionID(c); old != "" {
		s.RDB.Del(c.UserContext(), SessionRedisPrefix+old)
	}
	sid := uuid.NewString()
	b, err := json.Marshal(sessionData{User: &user})
	if err != nil {
		return err
	}
	if err := s.RDB.Set(c.UserContext(), SessionRedisPrefix+sid, b, sessionMaxAge).Err(); err != nil {
		return err
	}
	c.Locals(sessionIDLocal, sid)
	SetCurrentUser(c, &user)

	cookie := s.cookie()
	cookie.Value = s.sign(sid)
	c.Cookie(&cookie)
	return nil
}

// Refresh rewrites the stored identity, keeping the session id and TTL window.
func (s *SessionStore) Refresh(ctx context.Context, sid string, user SessionUser) error {
	if sid == "" {
		return nil
	}
	b, err := json.Marshal(sessionData{User: &user})
	if err != nil {
		return err
	}
	return s.RDB.Set(ctx, SessionRedisPrefix+sid, b, sessionMaxAge).Err()
}

func (s *SessionStore) Logout(c *fiber.Ctx) error {
	if sid := GetSessionID(c); sid != "" {
		if err := s.RDB.Del(c.UserContext(), SessionRedisPrefix+sid).Err(); err != nil {
			return err
		}
	}
	c.Locals(sessionIDLocal, "")
	SetCurrentUser(c, nil)

	cookie := s.cookie()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.Cookie(&cookie)
	return nil
}

func (s *SessionStore) cookie() fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if s.Config.AllowCrossSiteDev {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return fiber.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   s.Config.IsProduction || s.Config.AllowCrossSiteDev,
		SameSite: sameSite,
	}
}

func (s *SessionStore) sign(sid string) string {
	if s.Config.Secret == "" {
		return sid
	}
	return "s:" + sid + "." + s.signature(sid)
}

func (s *SessionStore) unsign(value string) string {
	if s.Config.Secret == "" {
		return value
	}
	if !strings.HasPrefix(value, "s:") {
		return ""
	}
	sid, sig, ok := strings.Cut(value[2:], ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(s.signature(sid))) {
		return ""
	}
	return sid
}

func (s *SessionStore) signature(sid string) string {
	mac := hmac.New(sha256.New, []byte(s.Config.Secret))
	mac.Write([]byte(sid))
	return strings.TrimRight(base64.StdEncoding.EncodeToString(mac.Sum(nil)), "=")
}

func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// CurrentUser returns the session user or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *SessionUser {
	u, _ := c.Locals(sessionUserLocal).(*SessionUser)
	return u
}

func SetCurrentUser(c *fiber.Ctx, u *SessionUser) {
	c.Locals(sessionUserLocal, u)
}
