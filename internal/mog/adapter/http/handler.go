package http

import (
	"bufio"
	"context"

	"mog/internal/mog/domain/model"
	"mog/internal/mog/usecase"
	apperrors "mog/internal/shared/errors"
	"mog/internal/shared/logger"
	"mog/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

const contentTypeNDJSON = "application/x-ndjson"

// Handler serves the connection verbs over HTTP.
type Handler struct {
	gateway Gateway
	log     logger.Logger
}

// NewHandler creates a new HTTP handler over gateway.
func NewHandler(gateway Gateway, log logger.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		log:     log.WithComponent("http"),
	}
}

// RegisterRoutes mounts the health check and the verb endpoints. Guards
// apply to the verb endpoints only.
func (h *Handler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Get("/health", h.Health)

	v1 := router.Group("/v1", guards...)
	v1.Post("/:verb", h.Dispatch)
}

// Health reports 200 while the connection is open and the store answers a ping.
func (h *Handler) Health(c *fiber.Ctx) error {
	state := h.gateway.State()
	if state == usecase.StateKilled {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": state.String()})
	}
	if err := h.gateway.Ping(c.UserContext()); err != nil {
		h.log.WithContext(c.UserContext()).Warnf("Health check ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": state.String(), "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": state.String()})
}

// Dispatch decodes the request body and runs the verb named in the path.
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	verb, ok := model.ParseVerb(c.Params("verb"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown verb " + c.Params("verb")})
	}

	var req operationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, apperrors.NewValidationError("invalid request body").WithCause(err))
		}
	}

	ctx := utils.WithOperation(c.UserContext(), verb.String(), req.Collection)
	c.SetUserContext(ctx)

	query, err := req.query()
	if err != nil {
		return h.fail(c, err)
	}

	switch verb {
	case model.VerbGet:
		return h.get(ctx, c, query, &req)
	case model.VerbList:
		return h.list(ctx, c, query, &req)
	case model.VerbCursor:
		return h.cursor(ctx, c, query, &req)
	case model.VerbInsert:
		return h.insert(ctx, c, &req)
	case model.VerbUpdate:
		return h.update(ctx, c, query, &req)
	case model.VerbDelete:
		return h.delete(ctx, c, query, &req)
	default:
		return h.count(ctx, c, query, &req)
	}
}

func (h *Handler) get(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	find, err := req.findOneOptions()
	if err != nil {
		return h.fail(c, err)
	}
	doc, err := h.gateway.Get(ctx, query, model.GetOptions{OperationOptions: req.base(), Find: find})
	if err != nil {
		return h.fail(c, err)
	}
	return h.send(c, bson.M{"document": doc})
}

func (h *Handler) list(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	find, err := req.findOptions()
	if err != nil {
		return h.fail(c, err)
	}
	docs, err := h.gateway.List(ctx, query, model.ListOptions{OperationOptions: req.base(), Find: find})
	if err != nil {
		return h.fail(c, err)
	}
	return h.send(c, bson.M{"documents": docs, "count": len(docs)})
}

func (h *Handler) cursor(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	find, err := req.findOptions()
	if err != nil {
		return h.fail(c, err)
	}
	cur, err := h.gateway.Cursor(ctx, query, model.CursorOptions{OperationOptions: req.base(), Find: find})
	if err != nil {
		return h.fail(c, err)
	}

	// The first Next opens the store cursor, so open failures still get a status code.
	if !cur.Next(ctx) {
		defer cur.Close(ctx)
		if err := cur.Err(); err != nil {
			return h.fail(c, err)
		}
		c.Set(fiber.HeaderContentType, contentTypeNDJSON)
		return c.Status(fiber.StatusOK).Send(nil)
	}

	log := h.log.WithContext(ctx)
	c.Set(fiber.HeaderContentType, contentTypeNDJSON)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cur.Close(ctx)
		for {
			var doc bson.M
			if err := cur.Decode(&doc); err != nil {
				writeLine(w, bson.M{"error": err.Error()})
				return
			}
			writeLine(w, doc)
			if err := w.Flush(); err != nil {
				log.Warnf("Cursor stream aborted: %v", err)
				return
			}
			if !cur.Next(ctx) {
				break
			}
		}
		if err := cur.Err(); err != nil {
			log.Errorf("Cursor iteration failed: %v", err)
			writeLine(w, bson.M{"error": err.Error()})
		}
	})
	return nil
}

func (h *Handler) insert(ctx context.Context, c *fiber.Ctx, req *operationRequest) error {
	payload, err := req.payload()
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.gateway.Insert(ctx, payload, model.InsertOptions{OperationOptions: req.base(), Touch: req.Options.Touch})
	if err != nil {
		return h.fail(c, err)
	}
	body := bson.M{
		"many":          res.IsMany(),
		"insertedCount": res.InsertedCount(),
		"insertedIds":   res.InsertedIDs(),
	}
	if res.Attachment != nil {
		body["attachment"] = res.Attachment
	}
	return h.sendStatus(c, fiber.StatusCreated, body)
}

func (h *Handler) update(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	payload, err := req.payload()
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.gateway.Update(ctx, query, payload, model.UpdateOptions{
		OperationOptions: req.base(),
		Upsert:           req.Options.Upsert,
		Touch:            req.Options.Touch,
	})
	if err != nil {
		return h.fail(c, err)
	}
	body := bson.M{"many": res.Many}
	if res.UpdateResult != nil {
		body["matchedCount"] = res.MatchedCount
		body["modifiedCount"] = res.ModifiedCount
		body["upsertedCount"] = res.UpsertedCount
		if res.UpsertedID != nil {
			body["upsertedId"] = res.UpsertedID
		}
	}
	if res.Attachment != nil {
		body["attachment"] = res.Attachment
	}
	return h.send(c, body)
}

func (h *Handler) delete(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	res, err := h.gateway.Delete(ctx, query, model.DeleteOptions{OperationOptions: req.base(), Many: req.Options.Many})
	if err != nil {
		return h.fail(c, err)
	}
	var deleted int64
	if res != nil {
		deleted = res.DeletedCount
	}
	return h.send(c, bson.M{"deletedCount": deleted})
}

func (h *Handler) count(ctx context.Context, c *fiber.Ctx, query interface{}, req *operationRequest) error {
	n, err := h.gateway.Count(ctx, query, model.CountOptions{OperationOptions: req.base(), Fast: req.Options.Fast})
	if err != nil {
		return h.fail(c, err)
	}
	return h.send(c, bson.M{"count": n})
}

func (h *Handler) send(c *fiber.Ctx, body bson.M) error {
	return h.sendStatus(c, fiber.StatusOK, body)
}

// sendStatus writes body as relaxed Extended JSON so ObjectIDs and dates survive the trip.
func (h *Handler) sendStatus(c *fiber.Ctx, status int, body bson.M) error {
	out, err := bson.MarshalExtJSON(body, false, false)
	if err != nil {
		return h.fail(c, apperrors.NewInternalError("failed to encode response").WithCause(err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(out)
}

// fail maps gate errors to their status codes; anything else came from the store.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	log := h.log.WithContext(c.UserContext())
	if appErr, ok := apperrors.AsAppError(err); ok {
		if apperrors.IsPrecondition(err) {
			log.Infof("Operation refused: %v", err)
		} else {
			log.Debugf("Request rejected: %v", err)
		}
		return c.Status(appErr.HTTPCode).JSON(fiber.Map{
			"error":     appErr.Message,
			"type":      appErr.Type,
			"requestId": utils.GetRequestIDOrDefault(c.UserContext(), ""),
		})
	}
	log.Errorf("Store operation failed: %v", err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":     err.Error(),
		"type":      "STORE_ERROR",
		"requestId": utils.GetRequestIDOrDefault(c.UserContext(), ""),
	})
}

func writeLine(w *bufio.Writer, doc bson.M) {
	out, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		out = []byte(`{"error":"unencodable document"}`)
	}
	_, _ = w.Write(out)
	_ = w.WriteByte('\n')
}
