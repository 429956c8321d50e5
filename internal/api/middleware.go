package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"course-service/internal/model"
	"course-service/internal/service"
)

const currentUserKey = "currentUser"

// ErrAuthHeaderMissing is logged when a protected request carries no
// well-formed Basic Authorization header.
var ErrAuthHeaderMissing = errors.New("basic authorization header not found")

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
	authRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejected_total",
			Help: "Total number of rejected Basic authentication attempts",
		},
		[]string{"reason"},
	)
)

// BasicAuthMiddleware authenticates the request with HTTP Basic credentials
// and stores the resolved user in the request locals. Every rejection is
// reported to the client as ErrAccessDenied; the reason is only logged.
func BasicAuthMiddleware(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		emailAddress, password, ok := parseBasicAuth(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return rejectCredentials(c, ErrAuthHeaderMissing, "")
		}

		user, err := authService.Authenticate(ctx, emailAddress, password)
		if err != nil {
			if errors.Is(err, service.ErrIdentityNotFound) || errors.Is(err, service.ErrHashMismatch) {
				return rejectCredentials(c, err, emailAddress)
			}
			return err
		}

		slog.DebugContext(ctx, "Authentication successful", slog.String("email_address", user.EmailAddress))
		c.Locals(currentUserKey, user)

		return c.Next()
	}
}

func rejectCredentials(c *fiber.Ctx, reason error, emailAddress string) error {
	attrs := []any{slog.String("reason", reason.Error()), slog.String("path", c.Path())}
	if emailAddress != "" {
		attrs = append(attrs, slog.String("email_address", emailAddress))
	}
	slog.WarnContext(c.UserContext(), "Authentication rejected", attrs...)

	authRejectedTotal.WithLabelValues(rejectionLabel(reason)).Inc()

	return ErrAccessDenied
}

func rejectionLabel(reason error) string {
	switch {
	case errors.Is(reason, service.ErrIdentityNotFound):
		return "identity_not_found"
	case errors.Is(reason, service.ErrHashMismatch):
		return "hash_mismatch"
	default:
		return "header_missing"
	}
}

// parseBasicAuth extracts the credentials of an "Authorization: Basic" header.
func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}

	username, password, ok = strings.Cut(string(decoded), ":")
	if !ok || username == "" {
		return "", "", false
	}

	return username, password, true
}

// CurrentUser returns the user attached by BasicAuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := c.Locals(currentUserKey).(*model.User)
	if !ok || user == nil {
		return nil, ErrAccessDenied
	}
	return user, nil
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		duration := time.Since(start).Seconds()
		statusStr := fmt.Sprintf("%d", c.Response().StatusCode())

		// Label values outlive the request, fiber reuses its buffers.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
