package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ArtfulStore/pkg/kit"
)

type ctxKey string

const sessionKey ctxKey = "session_id"

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey).(string)
	return id, ok && id != ""
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// Require rejects requests without a valid session token.
func Require(tm *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := kit.BearerToken(r)
			if !ok {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing session token", nil)
				return
			}
			claims, err := tm.Parse(tok)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid session token", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), claims.SessionID)))
		})
	}
}

// KeyBySession is a rate-limit key: the session when known, else the client IP.
func KeyBySession(r *http.Request) string {
	if id, ok := IDFromContext(r.Context()); ok {
		return id
	}
	return kit.ClientIP(r)
}

type Server struct {
	Tokens *TokenMaker
	Log    *zap.Logger
}

// Start issues a token for a new session, or refreshes the caller's session
// when it presents a valid one.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	var (
		tok Token
		err error
	)
	if raw, ok := kit.BearerToken(r); ok {
		if claims, perr := s.Tokens.Parse(raw); perr == nil {
			tok, err = s.Tokens.Issue(claims.SessionID)
			s.write(w, r, tok, err, http.StatusOK)
			return
		}
	}
	tok, err = s.Tokens.New()
	s.write(w, r, tok, err, http.StatusCreated)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, tok Token, err error, status int) {
	if err != nil {
		kit.OrNop(s.Log).Error("issue session token", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, status, tok)
}
