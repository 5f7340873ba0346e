package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
)

type sessionApi struct {
	svc      *session.Service
	seqSvc   *sequence.Service
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, svc *session.Service, seqSvc *sequence.Service, validate *validator.Validate) {
	api := sessionApi{
		svc:      svc,
		seqSvc:   seqSvc,
		validate: validate,
	}

	g.GET("/classes/:classID/sessions", api.query)
	g.POST("/classes/:classID/sessions", api.create)

	sg := g.Group("/sessions/:id")
	sg.GET("", api.retrieve)
	sg.GET("/sequence", api.retrieveSequence)
	sg.DELETE("/sequence", api.unassign)
}

// Handlers

func (api *sessionApi) query(ctx echo.Context) error {
	sessions, err := api.svc.QueryByClass(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) create(ctx echo.Context) error {
	var data session.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	data.ClassID = ctx.Param("classID")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	sess, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) retrieveSequence(ctx echo.Context) error {
	seq, err := api.seqSvc.SequenceBySession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting session sequence")
	}
	return ctx.JSON(http.StatusOK, seq)
}

func (api *sessionApi) unassign(ctx echo.Context) error {
	if err := api.seqSvc.UnassignSession(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "unassigning session")
	}
	return ctx.NoContent(http.StatusNoContent)
}
