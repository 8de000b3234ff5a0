package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"commons/internal/middleware"
	"commons/internal/models"
	"commons/internal/services"
	"commons/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments *services.CommentService
	log      *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

// commentItem is a listed comment ready for a template or JSON client.
type commentItem struct {
	models.CommentView
	BodyHTML template.HTML `json:"body_html"`
	IsOwner  bool          `json:"is_owner"`
}

type commentListResponse struct {
	Comments   []commentItem `json:"comments"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int64         `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func (h *CommentHandler) loadPage(c *gin.Context) (*commentListResponse, error) {
	page := utils.StringToInt(c.Query("page"))
	pageSize := utils.StringToInt(c.Query("pageSize"))

	result, err := h.comments.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		return nil, err
	}

	var viewerID uint
	if claims := middleware.CurrentClaims(c); claims != nil {
		viewerID = claims.UserID
	}

	items := make([]commentItem, 0, len(result.Comments))
	for _, cv := range result.Comments {
		items = append(items, commentItem{
			CommentView: cv,
			BodyHTML:    utils.RenderMarkdown(cv.Body),
			IsOwner:     viewerID != 0 && cv.UserID == viewerID,
		})
	}
	return &commentListResponse{
		Comments:   items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}, nil
}

// List renders the comment thread.
func (h *CommentHandler) List(c *gin.Context) {
	page, err := h.loadPage(c)
	if err != nil {
		logError(c, h.log, err)
		RenderError(c, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	Render(c, http.StatusOK, "comments/list.html", gin.H{
		"Comments":   page.Comments,
		"Page":       page.Page,
		"PageSize":   page.PageSize,
		"TotalPages": page.TotalPages,
		"Total":      page.Total,
		"Error":      c.Query("error"),
	})
}

// ListJSON returns a page of comments for API clients.
func (h *CommentHandler) ListJSON(c *gin.Context) {
	page, err := h.loadPage(c)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create posts a comment from the page form. Rejected input sends the user
// back to the thread with the reason.
func (h *CommentHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	body := c.PostForm("body")

	if _, err := h.comments.Create(c.Request.Context(), claims.UserID, body); err != nil {
		code, msg := statusFor(err)
		if code >= http.StatusInternalServerError {
			logError(c, h.log, err)
			RenderError(c, code, msg)
			return
		}
		c.Redirect(http.StatusFound, "/comments?error="+url.QueryEscape(msg))
		return
	}
	c.Redirect(http.StatusFound, "/comments")
}

type commentBodyRequest struct {
	Body string `json:"body" form:"body"`
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid id.")
		return
	}

	var req commentBodyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}

	claims := middleware.CurrentClaims(c)
	updated, err := h.comments.Update(c.Request.Context(), id, claims.UserID, req.Body)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	if !updated {
		// missing, deleted and not-yours all look the same
		abortWithError(c, h.log, models.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid id.")
		return
	}

	claims := middleware.CurrentClaims(c)
	deleted, err := h.comments.SoftDelete(c.Request.Context(), id, claims.UserID)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	if !deleted {
		abortWithError(c, h.log, models.ErrForbidden)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	c.Redirect(http.StatusFound, "/comments")
}

type voteRequest struct {
	Value int `json:"value" form:"value" binding:"oneof=-1 1"`
}

func (h *CommentHandler) Vote(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.String(http.StatusBadRequest, "Invalid id.")
		return
	}

	var req voteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid vote.")
		return
	}

	claims := middleware.CurrentClaims(c)
	score, err := h.comments.SetReaction(c.Request.Context(), id, claims.UserID, req.Value)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "score": score})
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.HasPrefix(c.ContentType(), "application/json")
}
