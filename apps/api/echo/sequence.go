package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classplan/core"
	"github.com/trezcool/classplan/core/sequence"
	"github.com/trezcool/classplan/core/session"
)

var (
	errSeqNotFoundInCtx = errors.New("sequence object not found in echo.Context")
	errUnknownSessions  = "unknown sessions or sessions of another class"
)

type sequenceApi struct {
	svc      *sequence.Service
	sessSvc  *session.Service
	validate *validator.Validate
}

func registerSequenceAPI(g *echo.Group, svc *sequence.Service, sessSvc *session.Service, validate *validator.Validate) {
	api := sequenceApi{
		svc:      svc,
		sessSvc:  sessSvc,
		validate: validate,
	}

	cg := g.Group("/classes/:classID")
	cg.GET("/sequences", api.query)
	cg.POST("/sequences", api.create)
	cg.PUT("/sequences/order", api.reorder)
	cg.POST("/sequences/auto-assign", api.autoAssign)
	cg.GET("/statistics", api.statistics)

	// detail endpoints
	dg := g.Group("/sequences/:id", sequenceObjectMiddleware(svc))
	dg.GET("", api.retrieve)
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/sessions", api.querySessions)
	dg.PUT("/sessions", api.assignSessions)
}

// sequenceObjectMiddleware loads the `:id` Sequence into the context as "object".
func sequenceObjectMiddleware(svc *sequence.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			seq, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "getting sequence")
			}
			ctx.Set("object", seq)
			return next(ctx)
		}
	}
}

func getContextSequence(ctx echo.Context) (sequence.Sequence, error) {
	seq, ok := ctx.Get("object").(sequence.Sequence)
	if !ok {
		return sequence.Sequence{}, errors.Wrap(errSeqNotFoundInCtx, "retrieving object from context")
	}
	return seq, nil
}

// Handlers

func (api *sequenceApi) query(ctx echo.Context) error {
	seqs, err := api.svc.QueryByClass(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "querying sequences")
	}
	return ctx.JSON(http.StatusOK, seqs)
}

func (api *sequenceApi) create(ctx echo.Context) error {
	var data sequence.NewSequence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSequence")
	}
	data.ClassID = ctx.Param("classID")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	seq, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating sequence")
	}
	return ctx.JSON(http.StatusCreated, seq)
}

func (api *sequenceApi) reorder(ctx echo.Context) error {
	var data sequence.ReorderSequences
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderSequences")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	classID := ctx.Param("classID")
	if err := api.svc.Reorder(ctx.Request().Context(), classID, data.SequenceIDs); err != nil {
		return errors.Wrap(err, "reordering sequences")
	}
	seqs, err := api.svc.QueryByClass(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "querying sequences")
	}
	return ctx.JSON(http.StatusOK, seqs)
}

func (api *sequenceApi) autoAssign(ctx echo.Context) error {
	allocs, err := api.svc.AutoAssign(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "auto-assigning sessions")
	}
	return ctx.JSON(http.StatusOK, allocs)
}

func (api *sequenceApi) statistics(ctx echo.Context) error {
	stats, err := api.svc.ClassStatistics(ctx.Request().Context(), ctx.Param("classID"))
	if err != nil {
		return errors.Wrap(err, "computing class statistics")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *sequenceApi) retrieve(ctx echo.Context) error {
	seq, err := getContextSequence(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, seq)
}

func (api *sequenceApi) update(ctx echo.Context) error {
	seq, err := getContextSequence(ctx)
	if err != nil {
		return err
	}

	var data sequence.UpdateSequence
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSequence")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	seq, err = api.svc.Update(ctx.Request().Context(), seq.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating sequence")
	}
	return ctx.JSON(http.StatusOK, seq)
}

func (api *sequenceApi) destroy(ctx echo.Context) error {
	seq, err := getContextSequence(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), seq.ID); err != nil {
		return errors.Wrap(err, "deleting sequence")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sequenceApi) querySessions(ctx echo.Context) error {
	seq, err := getContextSequence(ctx)
	if err != nil {
		return err
	}
	sessions, err := api.svc.SessionsBySequence(ctx.Request().Context(), seq.ID)
	if err != nil {
		return errors.Wrap(err, "querying sequence sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sequenceApi) assignSessions(ctx echo.Context) error {
	seq, err := getContextSequence(ctx)
	if err != nil {
		return err
	}

	var data sequence.AssignSessions
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignSessions")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	// the engine trusts its callers: only sessions of the sequence's class get through
	if len(data.SessionIDs) > 0 {
		sessions, err := api.sessSvc.QueryByIDs(ctx.Request().Context(), data.SessionIDs)
		if err != nil {
			return errors.Wrap(err, "querying sessions")
		}
		valid := len(sessions) == len(data.SessionIDs)
		for _, sess := range sessions {
			valid = valid && sess.ClassID == seq.ClassID
		}
		if !valid {
			return core.NewValidationError(nil, core.FieldError{Field: "session_ids", Error: errUnknownSessions})
		}
	}

	ctxt := ctx.Request().Context()
	if err = api.svc.AssignSessions(ctxt, seq.ID, data.SessionIDs); err != nil {
		return errors.Wrap(err, "assigning sessions")
	}
	sessions, err := api.svc.SessionsBySequence(ctxt, seq.ID)
	if err != nil {
		return errors.Wrap(err, "querying sequence sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}
