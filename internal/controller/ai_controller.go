package controller

import (
	"smart-notes-be/internal/apperror"
	"smart-notes-be/internal/dto"
	"smart-notes-be/internal/pkg/serverutils"
	"smart-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAIController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	Summarize(ctx *fiber.Ctx) error
	ProcessImage(ctx *fiber.Ctx) error
	ProcessAudio(ctx *fiber.Ctx) error
	Capabilities(ctx *fiber.Ctx) error
}

type aiController struct {
	aiService service.IAIService
}

func NewAIController(aiService service.IAIService) IAIController {
	return &aiController{
		aiService: aiService,
	}
}

func (c *aiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Get("/capabilities", c.Capabilities)
	h.Post("/analyze", c.Analyze)
	h.Post("/summarize", c.Summarize)
	h.Post("/process-image", c.ProcessImage)
	h.Post("/process-audio", c.ProcessAudio)
}

func (c *aiController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Analyze(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Text analyzed", res))
}

func (c *aiController) Summarize(ctx *fiber.Ctx) error {
	var req dto.SummarizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.Summarize(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Text summarized", res))
}

func (c *aiController) ProcessImage(ctx *fiber.Ctx) error {
	var req dto.ProcessImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.ProcessImage(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Image processed", res))
}

func (c *aiController) ProcessAudio(ctx *fiber.Ctx) error {
	var req dto.ProcessAudioRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.aiService.ProcessAudio(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Audio processed", res))
}

func (c *aiController) Capabilities(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("AI capabilities", c.aiService.Capabilities()))
}
