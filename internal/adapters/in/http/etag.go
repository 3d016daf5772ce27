package http

import (
	"strconv"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Header names used for optimistic concurrency; echo does not define them.
const (
	headerETag    = "ETag"
	headerIfMatch = "If-Match"
)

// setETag exposes the aggregate's concurrency token as a strong entity tag.
func setETag(c echo.Context, token kernel.ConcurrencyToken) {
	if token.IsZero() {
		return
	}
	c.Response().Header().Set(headerETag, strconv.Quote(token.String()))
}

// ifMatch reads the expected concurrency token from the If-Match header. An
// absent header or "*" yields the zero token, which makes the write
// unconditional. Weak tags and lists are rejected.
func ifMatch(c echo.Context) (kernel.ConcurrencyToken, error) {
	raw := strings.TrimSpace(c.Request().Header.Get(headerIfMatch))
	if raw == "" || raw == "*" {
		return kernel.ConcurrencyToken{}, nil
	}

	value, err := strconv.Unquote(raw)
	if err != nil || strings.HasPrefix(raw, "W/") {
		return kernel.ConcurrencyToken{}, errs.NewVersionIsInvalidError(headerIfMatch)
	}
	return kernel.ParseConcurrencyToken(value)
}
