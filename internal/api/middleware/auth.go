package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "некорректный токен авторизации"
)

type ctxKey int

const (
	principalKey ctxKey = iota
	requestIDKey
)

var (
	ErrInvalidSubject = errors.New("middleware: invalid sub claim")
	ErrInvalidRole    = errors.New("middleware: invalid role claim")
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет Bearer JWT (HS256) и кладет Principal{sub, role} в контекст запроса
func Auth(secret string, logger Logger) mux.MiddlewareFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn("%s %s - Missing bearer token: request_id=%s", r.Method, r.URL.Path, GetRequestID(r.Context()))
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}

			claims := jwt.MapClaims{}
			_, err := parser.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil {
				logger.Warn("%s %s - Invalid token: request_id=%s, error=%v", r.Method, r.URL.Path, GetRequestID(r.Context()), err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				logger.Warn("%s %s - Invalid claims: request_id=%s, error=%v", r.Method, r.URL.Path, GetRequestID(r.Context()), err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// sub может прийти как числом, так и строкой
func principalFromClaims(claims jwt.MapClaims) (domain.Principal, error) {
	var id int64
	switch sub := claims["sub"].(type) {
	case float64:
		id = int64(sub)
		if float64(id) != sub {
			return domain.Principal{}, fmt.Errorf("%w: %v", ErrInvalidSubject, sub)
		}
	case string:
		parsed, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("%w: %q", ErrInvalidSubject, sub)
		}
		id = parsed
	default:
		return domain.Principal{}, ErrInvalidSubject
	}
	if id <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: %d", ErrInvalidSubject, id)
	}

	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if !role.IsValid() {
		return domain.Principal{}, fmt.Errorf("%w: %q", ErrInvalidRole, roleStr)
	}

	return domain.Principal{ID: id, Role: role}, nil
}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal возвращает пользователя, установленного middleware Auth
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
