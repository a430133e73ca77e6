package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/artemisia-corp/storefront/api/responses"
	"github.com/artemisia-corp/storefront/pkg/config"
	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/logger"
)

// authBodyLimit caps how much of a login or registration body is buffered.
const authBodyLimit = 1 << 20

// RateLimitStore counts attempts per scope inside a fixed window.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// rateLimitRule counts one dimension of a request, such as the caller IP or the
// login username. An empty subject skips the rule.
type rateLimitRule struct {
	dimension string
	limit     int64
	hashed    bool
	subject   func(r *http.Request, body []byte) string
}

// RateLimitPolicy groups the rules guarding one auth endpoint.
type RateLimitPolicy struct {
	name   string
	window time.Duration
	rules  []rateLimitRule
}

// LoginRateLimitPolicy limits login attempts per IP and per username.
func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	p := RateLimitPolicy{name: "login", window: cfg.LoginWindow}
	p.add(rateLimitRule{dimension: "ip", limit: int64(cfg.LoginIPLimit), subject: ipSubject})
	p.add(rateLimitRule{dimension: "username", limit: int64(cfg.LoginUsernameLimit), hashed: true, subject: bodyField("username")})
	return p
}

// RegisterRateLimitPolicy limits account creation per IP.
func RegisterRateLimitPolicy(cfg config.AuthRateLimitConfig) RateLimitPolicy {
	p := RateLimitPolicy{name: "register", window: cfg.RegisterWindow}
	p.add(rateLimitRule{dimension: "ip", limit: int64(cfg.RegisterIPLimit), subject: ipSubject})
	return p
}

func (p *RateLimitPolicy) add(rule rateLimitRule) {
	if rule.limit > 0 {
		p.rules = append(p.rules, rule)
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && len(p.rules) > 0
}

func (p RateLimitPolicy) readsBody() bool {
	for _, rule := range p.rules {
		if rule.dimension != "ip" {
			return true
		}
	}
	return false
}

// RateLimit enforces the policy before the auth handler runs. The request body
// is buffered and restored so the handler can still decode it.
func RateLimit(policy RateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.readsBody() {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, authBodyLimit))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			for _, rule := range policy.rules {
				subject := rule.subject(r, body)
				if subject == "" {
					continue
				}
				if rule.hashed {
					subject = hashValue(subject)
				}
				scope := policy.name + ":" + rule.dimension + ":" + subject
				allowed, count, err := store.FixedWindowAllow(ctx, scope, rule.limit, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					rejectRateLimited(ctx, logg, w, policy, rule, subject, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, rule rateLimitRule, subject string, count int64) {
	logg.Warn(logg.WithFields(ctx, map[string]any{
		"policy":         policy.name,
		"dimension":      rule.dimension,
		"subject":        subject,
		"attempts":       count,
		"limit":          rule.limit,
		"window_seconds": int(policy.window.Seconds()),
	}), "auth.rate_limit.blocked")

	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func ipSubject(r *http.Request, _ []byte) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// bodyField reads a top-level string field, normalized so "Ana" and " ana " count together.
func bodyField(field string) func(*http.Request, []byte) string {
	return func(_ *http.Request, body []byte) string {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			return ""
		}
		value, _ := payload[field].(string)
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
