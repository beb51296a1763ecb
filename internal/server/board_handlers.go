package server

import (
	"quad/internal/models"
	"quad/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRequest handles POST /api/board/requests.
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Location    string `json:"location"`
		City        string `json:"city"`
		IsRemote    bool   `json:"is_remote"`
		Tags        any    `json:"tags"`
		Urgency     string `json:"urgency"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.boardService.CreateRequest(c.Context(), service.CreateRequestInput{
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		City:        req.City,
		IsRemote:    req.IsRemote,
		Tags:        req.Tags,
		Urgency:     req.Urgency,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetRequests handles GET /api/board/requests.
func (s *Server) GetRequests(c *fiber.Ctx) error {
	page, err := s.boardService.ListRequests(c.Context(), service.ListRequestsInput{
		SinceHours: c.QueryInt("since_hours", 0),
		Order:      c.Query("order", service.OrderNewest),
		Limit:      c.QueryInt("limit", 0),
		ViewerID:   viewerID(c),
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(page)
}

// GetRequest handles GET /api/board/requests/:id.
func (s *Server) GetRequest(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	req, svcErr := s.boardService.GetRequest(c.Context(), requestID, viewerID(c))
	if svcErr != nil {
		return models.RespondWithError(c, statusForError(svcErr), svcErr)
	}

	return c.JSON(req)
}

// DeleteRequest handles DELETE /api/board/requests/:id.
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	if svcErr := s.boardService.DeleteRequest(c.Context(), requestID, userID); svcErr != nil {
		return models.RespondWithError(c, statusForError(svcErr), svcErr)
	}

	return c.JSON(fiber.Map{"message": "Request deleted"})
}

// ToggleLike handles POST /api/board/requests/:id/like.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	result, svcErr := s.likeService.ToggleLike(c.Context(), requestID, userID)
	if svcErr != nil {
		return models.RespondWithError(c, statusForError(svcErr), svcErr)
	}

	return c.JSON(result)
}

// OfferHelp handles POST /api/board/requests/:id/help.
func (s *Server) OfferHelp(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	if svcErr := s.helpService.OfferHelp(c.Context(), requestID, userID); svcErr != nil {
		return models.RespondWithError(c, statusForError(svcErr), svcErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Help offered"})
}

// WithdrawHelp handles DELETE /api/board/requests/:id/help.
func (s *Server) WithdrawHelp(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	if svcErr := s.helpService.WithdrawHelp(c.Context(), requestID, userID); svcErr != nil {
		return models.RespondWithError(c, statusForError(svcErr), svcErr)
	}

	return c.JSON(fiber.Map{"message": "Help offer withdrawn"})
}
