package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/dashboard"
)

type dashboardApi struct {
	svc dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc dashboard.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard", api.retrieve, jwt, adminMiddleware())
}

func (api *dashboardApi) retrieve(ctx echo.Context) error {
	report, err := api.svc.Report()
	if err != nil {
		return errors.Wrap(err, "building dashboard report")
	}
	return respond(ctx, http.StatusOK, report)
}
