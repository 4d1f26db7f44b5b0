package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core/subscriber"
)

type subscriberApi struct {
	svc      subscriber.Service
	validate *validator.Validate
}

func registerSubscriberAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc subscriber.Service, validate *validator.Validate) {
	api := subscriberApi{svc: svc, validate: validate}

	sg := g.Group("/subscribe-emails")

	// the newsletter opt-in on the marketing site posts here
	sg.POST("", api.subscribe)
	sg.POST("/unsubscribe", api.unsubscribe)

	// back-office endpoints
	ag := sg.Group("", jwt, adminMiddleware())
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.POST("/record-send", api.recordSend)
	ag.DELETE("/:id", api.destroy)
	ag.DELETE("", api.destroyMultiple)
}

func (api *subscriberApi) subscribe(ctx echo.Context) error {
	var data subscriber.SubscribeEmail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubscribeEmail")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Subscribe(data)
	if err != nil {
		return errors.Wrap(err, "subscribing email")
	}
	return respond(ctx, http.StatusCreated, sub)
}

func (api *subscriberApi) unsubscribe(ctx echo.Context) error {
	var data subscriber.SubscribeEmail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubscribeEmail")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// an unknown email gets the same answer; no address disclosure
	if _, err := api.svc.Unsubscribe(data); err != nil && errors.Cause(err) != subscriber.ErrNotFound {
		return errors.Wrap(err, "unsubscribing email")
	}
	return respondMessage(ctx, "You have been unsubscribed.")
}

func (api *subscriberApi) query(ctx echo.Context) error {
	filter := new(subscriber.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		filter = new(subscriber.QueryFilter)
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	page := bindPage(ctx)

	subs, pagination, err := api.svc.Query(filter, ordering.Orderings, page)
	if err != nil {
		return errors.Wrap(err, "querying subscribers")
	}
	if subs == nil {
		subs = []subscriber.Subscriber{}
	}
	return respondList(ctx, subs, pagination)
}

func (api *subscriberApi) retrieve(ctx echo.Context) error {
	sub, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == subscriber.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding subscriber by ID")
	}
	return respond(ctx, http.StatusOK, sub)
}

// recordSend bumps the send counters after a newsletter goes out.
func (api *subscriberApi) recordSend(ctx echo.Context) error {
	var data RecordSendRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RecordSendRequest")
	}
	if data.IDs == nil {
		return respondMessage(ctx, "Nothing to record.")
	}

	if err := api.svc.RecordSend(data.IDs...); err != nil {
		return errors.Wrap(err, "recording sends")
	}
	return respondMessage(ctx, "Sends recorded.")
}

func (api *subscriberApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == subscriber.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting subscriber")
	}
	return respondMessage(ctx, "Subscriber deleted.")
}

func (api *subscriberApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return respondMessage(ctx, "Nothing to delete.")
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting subscribers")
	}
	return respondMessage(ctx, "Subscribers deleted.")
}

type RecordSendRequest struct {
	IDs []string `json:"ids"`
}
