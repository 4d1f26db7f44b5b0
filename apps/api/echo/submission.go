package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/submission"
)

type submissionApi struct {
	svc      submission.Service
	validate *validator.Validate
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc submission.Service, validate *validator.Validate) {
	api := submissionApi{svc: svc, validate: validate}

	sg := g.Group("/submissions")

	// the trial-lesson booking form on the marketing site posts here
	sg.POST("", api.create)

	// back-office endpoints
	ag := sg.Group("", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *submissionApi) create(ctx echo.Context) error {
	var data submission.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating submission")
	}
	return respond(ctx, http.StatusCreated, sub)
}

func (api *submissionApi) query(ctx echo.Context) error {
	filter := new(submission.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(submission.QueryFilter)
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	subs, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return respondList(ctx, subs, pagination)
}

func (api *submissionApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding submission by ID")
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *submissionApi) update(ctx echo.Context) error {
	var data submission.UpdateSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating submission")
	}
	return respond(ctx, http.StatusOK, sub)
}

func (api *submissionApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == submission.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting submission")
	}
	return respondMessage(ctx, "Submission deleted.")
}

func (api *submissionApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting submissions")
	}
	return respondMessage(ctx, "Submissions deleted.")
}
