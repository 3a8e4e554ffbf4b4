package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"mitramandal-backend/internal/config"
	"mitramandal-backend/internal/logger"
	"mitramandal-backend/internal/metrics"
	"mitramandal-backend/internal/security"
	"mitramandal-backend/internal/service"
)

// AuthMiddleware authenticates requests according to the security level of
// the matched route. Admin rights are read from the club settings on every
// request, so revoking them takes effect before the token expires.
type AuthMiddleware struct {
	tokens  security.TokenManager
	members service.MemberService
	admins  service.AdminService
}

func NewAuthMiddleware(tokens security.TokenManager, members service.MemberService, admins service.AdminService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, members: members, admins: admins}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authorization token is not provided")
			return
		}
		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token: "+err.Error())
			return
		}

		ctx := r.Context()
		member, err := m.members.GetMember(ctx, claims.MemberID)
		if errors.Is(err, service.ErrMemberNotFound) {
			respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unknown member")
			return
		}
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if !member.IsActive {
			respondServiceError(w, service.ErrMemberInactive)
			return
		}

		if level == config.SecurityAdmin {
			isAdmin, err := m.admins.IsAdmin(ctx, claims.MemberID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			if !isAdmin {
				respondError(w, http.StatusForbidden, "FORBIDDEN", "admin access required")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := header
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		token = header[7:]
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request counts and latencies per route name.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := routeName(r)
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(r.Method, route, rec.status, time.Since(start))
		logger.Debug("Request served", "method", r.Method, "route", route, "status", rec.status,
			"duration", time.Since(start))
	})
}
