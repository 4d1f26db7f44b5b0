package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/contact"
)

type contactApi struct {
	svc      contact.Service
	validate *validator.Validate
}

func registerContactAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc contact.Service, validate *validator.Validate) {
	api := contactApi{svc: svc, validate: validate}

	cg := g.Group("/contacts")

	// the contact form on the marketing site posts here
	cg.POST("", api.create)

	// back-office endpoints
	ag := cg.Group("", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *contactApi) create(ctx echo.Context) error {
	var data contact.NewContact
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContact")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cont, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating contact")
	}
	return respond(ctx, http.StatusCreated, cont)
}

func (api *contactApi) query(ctx echo.Context) error {
	filter := new(contact.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(contact.QueryFilter)
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	contacts, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying contacts")
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}
	return respondList(ctx, contacts, pagination)
}

func (api *contactApi) retrieve(ctx echo.Context) error {
	cont, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding contact by ID")
	}
	return respond(ctx, http.StatusOK, cont)
}

func (api *contactApi) update(ctx echo.Context) error {
	var data contact.UpdateContact
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateContact")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cont, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating contact")
	}
	return respond(ctx, http.StatusOK, cont)
}

func (api *contactApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == contact.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting contact")
	}
	return respondMessage(ctx, "Contact deleted.")
}

func (api *contactApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting contacts")
	}
	return respondMessage(ctx, "Contacts deleted.")
}
