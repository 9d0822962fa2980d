package controller

import (
	"smart-notes-be/internal/apperror"
	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/serverutils"
	"smart-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AttachImage(ctx *fiber.Ctx) error
	AttachAudio(ctx *fiber.Ctx) error
	Reprocess(ctx *fiber.Ctx) error
	Categories(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/categories", c.Categories)
	h.Get("/stats", c.Stats)
	h.Get("/:id", c.Show)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
	h.Post("/:id/image", c.AttachImage)
	h.Post("/:id/audio", c.AttachAudio)
	h.Post("/:id/reprocess", c.Reprocess)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	var query dto.ListNotesQuery
	if err := ctx.QueryParser(&query); err != nil {
		return apperror.InvalidInput("invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.noteService.List(ctx.UserContext(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	resp := serverutils.SuccessResponse("Success create note", res)
	resp.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}

func (c *noteController) AttachImage(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.AttachImage(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Image processed and added to note", res))
}

func (c *noteController) AttachAudio(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	var req dto.AttachAudioRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.AttachAudio(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Audio transcribed and added to note", res))
}

func (c *noteController) Reprocess(ctx *fiber.Ctx) error {
	id, err := noteID(ctx)
	if err != nil {
		return err
	}

	res, err := c.noteService.Reprocess(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	resp := serverutils.SuccessResponse("Note queued for enrichment", res)
	resp.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(resp)
}

func (c *noteController) Categories(ctx *fiber.Ctx) error {
	res, err := c.noteService.Categories(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list categories", res))
}

func (c *noteController) Stats(ctx *fiber.Ctx) error {
	res, err := c.noteService.Stats(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success note stats", res))
}

func noteID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("invalid note id %q", ctx.Params("id"))
	}
	return id, nil
}
