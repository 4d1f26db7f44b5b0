package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/blog"
)

type blogApi struct {
	svc      blog.Service
	validate *validator.Validate
}

func registerBlogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc blog.Service, validate *validator.Validate) {
	api := blogApi{svc: svc, validate: validate}

	bg := g.Group("/blogs")

	// public endpoints; anonymous visitors only see published posts
	bg.GET("", api.query, optionalJWT())
	bg.GET("/slug/:slug", api.retrieveBySlug)
	bg.GET("/:id", api.retrieve)

	// back-office endpoints
	ag := bg.Group("", jwt, adminMiddleware())
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *blogApi) create(ctx echo.Context) error {
	var data blog.NewBlog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBlog")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	blg, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating blog")
	}
	return respond(ctx, http.StatusCreated, blg)
}

func (api *blogApi) query(ctx echo.Context) error {
	filter := new(blog.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(blog.QueryFilter)
	}
	filter.Clean()
	// the status filter is reserved for back-office users
	if !contextIsAdmin(ctx) {
		filter.Status = blog.StatusPublished
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	blogs, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying blogs")
	}
	if blogs == nil {
		blogs = []blog.Blog{}
	}
	return respondList(ctx, blogs, pagination)
}

func (api *blogApi) retrieve(ctx echo.Context) error {
	blg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding blog by ID")
	}
	return respond(ctx, http.StatusOK, blg)
}

func (api *blogApi) retrieveBySlug(ctx echo.Context) error {
	blg, err := api.svc.GetBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding blog by slug")
	}
	return respond(ctx, http.StatusOK, blg)
}

func (api *blogApi) update(ctx echo.Context) error {
	blg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding blog by ID")
	}

	var data blog.UpdateBlog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBlog")
	}
	if err := data.Validate(blg, api.validate, api.svc); err != nil {
		return err
	}

	blg, err = api.svc.Update(blg.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating blog")
	}
	return respond(ctx, http.StatusOK, blg)
}

func (api *blogApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == blog.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting blog")
	}
	return respondMessage(ctx, "Blog deleted.")
}

func (api *blogApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting blogs")
	}
	return respondMessage(ctx, "Blogs deleted.")
}
