package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/tutor"
)

type tutorApi struct {
	svc      tutor.Service
	validate *validator.Validate
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc tutor.Service, validate *validator.Validate) {
	api := tutorApi{svc: svc, validate: validate}

	tg := g.Group("/tutors")

	// public endpoints (the marketing site's tutor directory)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)

	// back-office endpoints
	ag := tg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *tutorApi) create(ctx echo.Context) error {
	var data tutor.NewTutor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTutor")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	tut, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating tutor")
	}
	return respond(ctx, http.StatusCreated, tut)
}

func (api *tutorApi) query(ctx echo.Context) error {
	filter := new(tutor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(tutor.QueryFilter)
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	tutors, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying tutors")
	}
	if tutors == nil {
		tutors = []tutor.Tutor{}
	}
	return respondList(ctx, tutors, pagination)
}

func (api *tutorApi) retrieve(ctx echo.Context) error {
	tut, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == tutor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding tutor by ID")
	}
	return respond(ctx, http.StatusOK, tut)
}

func (api *tutorApi) update(ctx echo.Context) error {
	tut, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == tutor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding tutor by ID")
	}

	var data tutor.UpdateTutor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTutor")
	}
	if err := data.Validate(tut, api.validate, api.svc); err != nil {
		return err
	}

	tut, err = api.svc.Update(tut.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating tutor")
	}
	return respond(ctx, http.StatusOK, tut)
}

func (api *tutorApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == tutor.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting tutor")
	}
	return respondMessage(ctx, "Tutor deleted.")
}

func (api *tutorApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting tutors")
	}
	return respondMessage(ctx, "Tutors deleted.")
}
