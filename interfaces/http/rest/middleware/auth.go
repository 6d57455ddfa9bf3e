package middleware

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"medremind-backend/infrastructure/config"
	"medremind-backend/pkg/auth"
)

// Authenticate creates an authentication middleware with JWT validation.
// The account limiter caps requests per authenticated account; callers
// pick an implementation that matches the deployment (in-process locally,
// DynamoDB-backed in Lambda).
func Authenticate(cfg *config.Config, accountLimiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	// In Lambda the API Gateway JWT authorizer has already validated the
	// token; only the user context needs extracting
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return authenticateForLambda(accountLimiter, logger)
	}

	jwtConfig := auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
	}
	if jwtConfig.SecretKey == "" {
		jwtConfig.SecretKey = "development-secret-change-in-production"
	}

	validator, err := auth.NewJWTValidator(jwtConfig)
	if err != nil {
		logger.Error("Failed to create JWT validator", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respondUnauthorized(w, "Authentication system error")
			})
		}
	}

	ipLimiter := auth.NewIPRateLimiter(100) // per minute per IP

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if allowed, _ := ipLimiter.Allow(r.Context(), clientIP); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := validator.ValidateToken(parts[1])
			if err != nil {
				respondUnauthorized(w, "Invalid token")
				return
			}

			if allowed, _ := accountLimiter.Allow(r.Context(), claims.Email); !allowed {
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			user := &auth.UserContext{
				Email: claims.Email,
				Role:  claims.Role,
			}
			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticateForLambda trusts the API Gateway authorizer and lifts its
// context headers into the request context
func authenticateForLambda(accountLimiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := r.Header.Get("X-User-Email")
			if email == "" {
				respondUnauthorized(w, "Missing user context from API Gateway")
				return
			}

			if allowed, err := accountLimiter.Allow(r.Context(), email); !allowed {
				if err != nil {
					logger.Warn("Rate limiter error", zap.Error(err))
				}
				respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			user := &auth.UserContext{
				Email: email,
				Role:  r.Header.Get("X-User-Role"),
			}
			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx != -1 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return r.RemoteAddr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
