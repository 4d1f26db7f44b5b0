package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/pricing"
)

type pricingApi struct {
	svc      pricing.Service
	validate *validator.Validate
}

func registerPricingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc pricing.Service, validate *validator.Validate) {
	api := pricingApi{svc: svc, validate: validate}

	pg := g.Group("/pricing")

	// public endpoints; anonymous visitors only see active plans
	pg.GET("", api.query, optionalJWT())
	pg.GET("/:id", api.retrieve)

	// back-office endpoints
	ag := pg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *pricingApi) create(ctx echo.Context) error {
	var data pricing.NewPlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlan")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating pricing plan")
	}
	return respond(ctx, http.StatusCreated, plan)
}

func (api *pricingApi) query(ctx echo.Context) error {
	filter := new(pricing.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(pricing.QueryFilter)
	}
	filter.Clean()
	// the is_active filter is reserved for back-office users
	if !contextIsAdmin(ctx) {
		active := true
		filter.IsActive = &active
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	plans, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying pricing plans")
	}
	if plans == nil {
		plans = []pricing.Plan{}
	}
	return respondList(ctx, plans, pagination)
}

func (api *pricingApi) retrieve(ctx echo.Context) error {
	plan, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == pricing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding pricing plan by ID")
	}
	return respond(ctx, http.StatusOK, plan)
}

func (api *pricingApi) update(ctx echo.Context) error {
	var data pricing.UpdatePlan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePlan")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	plan, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == pricing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating pricing plan")
	}
	return respond(ctx, http.StatusOK, plan)
}

func (api *pricingApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == pricing.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting pricing plan")
	}
	return respondMessage(ctx, "Pricing plan deleted.")
}

func (api *pricingApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting pricing plans")
	}
	return respondMessage(ctx, "Pricing plans deleted.")
}
