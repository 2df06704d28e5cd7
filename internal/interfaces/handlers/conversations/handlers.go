package conversations

import (
	"context"
	"fmt"

	"botsales-backend/internal/application/messaging"
	"botsales-backend/internal/domain"
	"botsales-backend/internal/middleware"
	"botsales-backend/internal/pkg/response"
	"botsales-backend/internal/platform/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var errNotParticipant = fmt.Errorf("%w: not a participant of this conversation", domain.ErrForbidden)

// Events receives message notifications. The NATS publisher implements it.
type Events interface {
	MessageSent(ctx context.Context, m domain.Message, recipientID string) error
}

type Handlers struct {
	Index   *messaging.Index
	Events  Events
	Metrics *metrics.MetricsManager
}

type startRequest struct {
	ListingID   string `json:"listingId"`
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

// POST /api/v1/conversations returns the existing thread for the pair when there is one.
// An optional first message is sent straight away.
func (h *Handlers) Start(c *fiber.Ctx) error {
	var req startRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	uid := middleware.ActingUserID(c)
	id, err := h.Index.StartConversation(req.ListingID, []string{uid, req.RecipientID})
	if err != nil {
		return response.FromError(c, err)
	}
	if req.Message != "" {
		if _, err := h.send(c, id, uid, req.Message); err != nil {
			return response.FromError(c, err)
		}
	}
	conv, _ := h.Index.GetConversation(id)
	return response.SuccessCreated(c, "Conversation started", conv, nil)
}

// GET /api/v1/conversations
func (h *Handlers) List(c *fiber.Ctx) error {
	uid := middleware.ActingUserID(c)
	convs := h.Index.GetConversationsByUser(uid)
	return response.Success(c, "Conversations fetched successfully", convs, fiber.Map{
		"total":  len(convs),
		"unread": h.Index.GetUnreadCount(uid),
	})
}

// GET /api/v1/conversations/:id/messages
func (h *Handlers) Messages(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Messages fetched successfully", h.Index.GetMessagesByConversation(id), nil)
}

type sendRequest struct {
	Content string `json:"content"`
}

// POST /api/v1/conversations/:id/messages
func (h *Handlers) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	m, err := h.send(c, c.Params("id"), middleware.ActingUserID(c), req.Content)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", m, nil)
}

// POST /api/v1/conversations/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return response.FromError(c, err)
	}
	uid := middleware.ActingUserID(c)
	n := h.Index.MarkAsRead(id, uid)
	return response.Success(c, "Conversation marked as read", fiber.Map{
		"marked": n,
		"unread": h.Index.GetUnreadCount(uid),
	}, nil)
}

// GET /api/v1/conversations/unread-count
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	return response.Success(c, "Unread count fetched successfully", fiber.Map{
		"count": h.Index.GetUnreadCount(middleware.ActingUserID(c)),
	}, nil)
}

func (h *Handlers) send(c *fiber.Ctx, convID, senderID, content string) (domain.Message, error) {
	m, err := h.Index.SendMessage(convID, senderID, content)
	if err != nil {
		return domain.Message{}, err
	}
	if h.Metrics != nil {
		h.Metrics.MessagesSent.Inc()
	}
	if h.Events != nil {
		conv, _ := h.Index.GetConversation(convID)
		if err := h.Events.MessageSent(c.UserContext(), m, conv.Counterpart(senderID)); err != nil {
			log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Failed to publish message event")
		}
	}
	return m, nil
}

func (h *Handlers) authorize(c *fiber.Ctx, convID string) error {
	conv, ok := h.Index.GetConversation(convID)
	if !ok {
		return domain.ErrConversationNotFound
	}
	if !conv.HasParticipant(middleware.ActingUserID(c)) {
		return errNotParticipant
	}
	return nil
}
