package handler

import (
	"net/http"
	"strconv"

	"counselgo/backend/internal/apierr"
	"counselgo/backend/internal/chat"
	"counselgo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AcceptEnquiry assigns a NEW session to the calling consultant
// (first assignment).
func (h *Handler) AcceptEnquiry(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.IsConsultant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "consultant role required"})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	consultant, err := h.Storage.GetConsultantByID(caller.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load consultant"})
		return
	}
	if consultant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "caller is not a consultant"})
		return
	}

	if err := h.Assign.AssignSession(session, consultant, true, caller.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "consultant_id": consultant.ID})
}

// AssignConsultant re-assigns an IN_PROGRESS session to another consultant.
func (h *Handler) AssignConsultant(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.IsConsultant() {
		c.JSON(http.StatusForbidden, gin.H{"error": "consultant role required"})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	consultant, err := h.Storage.GetConsultantByID(c.Param("consultantId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load consultant"})
		return
	}
	if consultant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "consultant not found"})
		return
	}

	if err := h.Assign.AssignSession(session, consultant, false, caller.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "consultant_id": consultant.ID})
}

type createEnquiryRequest struct {
	Message    string `json:"message" binding:"required"`
	ChatUserID string `json:"chatUserId" binding:"required"`
	ChatToken  string `json:"chatToken" binding:"required"`
}

// CreateEnquiry writes the first message of a session and provisions its
// chat rooms.
func (h *Handler) CreateEnquiry(c *gin.Context) {
	caller := callerFrom(c)

	sessionID, err := strconv.ParseUint(c.Param("sessionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	var req createEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Storage.GetUserByID(caller.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user"})
		return
	}

	creds := chat.Credentials{UserID: req.ChatUserID, AuthToken: req.ChatToken}
	if err := h.Enquiry.CreateEnquiry(user, uint(sessionID), req.Message, creds); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

func (h *Handler) loadSession(c *gin.Context) (*models.Session, bool) {
	id, err := strconv.ParseUint(c.Param("sessionId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}

	s, err := h.Storage.GetSessionByID(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return nil, false
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func respondError(c *gin.Context, err error) {
	kind := apierr.KindOf(err)
	c.JSON(apierr.HTTPStatus(kind), gin.H{"error": err.Error()})
}
