package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Missing claims
// mean the route was mounted without the middleware; reject with 401.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get("claims").(*domain.Claims)
	if claims == nil || claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// authorizeSelfOrAdmin lets administrators act on any account and everyone
// else only on their own.
func authorizeSelfOrAdmin(c echo.Context, id string) (*domain.Claims, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdministrator() && claims.Subject != id {
		return nil, echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return claims, nil
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// matchPathID rejects a body id that disagrees with the path id.
func matchPathID(pathID, bodyID string) error {
	if bodyID != "" && bodyID != pathID {
		return echo.NewHTTPError(http.StatusBadRequest, "id in body does not match path")
	}
	return nil
}
