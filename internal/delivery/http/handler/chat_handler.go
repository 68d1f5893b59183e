package handler

import (
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/pkg/response"
)

type ChatHandler struct {
	workspaces WorkspaceProvider
}

func NewChatHandler(workspaces WorkspaceProvider) *ChatHandler {
	return &ChatHandler{workspaces: workspaces}
}

type chatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/chat/message", h.Send)
	r.Delete("/chat/message", h.Cancel)
}

func (h *ChatHandler) Send(c fiber.Ctx) error {
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := workspace(c, h.workspaces).SendChat(c.Context(), req.Message, req.ConversationID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resp)
}

func (h *ChatHandler) Cancel(c fiber.Ctx) error {
	cancelled := workspace(c, h.workspaces).CancelChat()
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]bool{"cancelled": cancelled})
}
