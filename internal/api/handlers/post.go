package handlers

import (
	"net/http"

	"maskoff-server/internal/api/middleware"
	"maskoff-server/internal/models"
	"maskoff-server/internal/service"
	"maskoff-server/internal/websocket"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts      service.PostService
	dispatcher *websocket.Dispatcher
}

func NewPostHandler(posts service.PostService, dispatcher *websocket.Dispatcher) *PostHandler {
	return &PostHandler{posts: posts, dispatcher: dispatcher}
}

func (h *PostHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/posts", h.List)
	r.POST("/posts", h.Create)
	r.GET("/posts/:postID", h.Get)
	r.PUT("/posts/:postID", h.Update)
	r.DELETE("/posts/:postID", h.Delete)
	r.POST("/posts/:postID/comments", h.AddComment)
	r.DELETE("/posts/:postID/comments/:commentID", h.DeleteComment)
	r.POST("/posts/:postID/upvote", h.Upvote)
	r.POST("/posts/:postID/downvote", h.Downvote)
}

func (h *PostHandler) refreshAll() {
	h.dispatcher.Broadcast(websocket.NewUpdate(websocket.UpdateRefresh))
}

// List godoc
// @Summary      List all posts, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} models.PublicPost
// @Router       /api/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Create godoc
// @Summary      Publish a post, optionally under the caller's mask
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body models.CreatePostRequest true "Post content"
// @Success      201 {object} models.PublicPost
// @Router       /api/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusCreated, post)
}

// Get godoc
// @Summary      Fetch a single post with comments and vote counts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Success      200 {object} models.PublicPost
// @Failure      404 {object} map[string]string
// @Router       /api/posts/{postID} [get]
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("postID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update godoc
// @Summary      Edit the caller's post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Param        request body models.UpdatePostRequest true "Fields to change"
// @Success      200 {object} models.PublicPost
// @Failure      403 {object} map[string]string
// @Router       /api/posts/{postID} [put]
func (h *PostHandler) Update(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), middleware.UserID(c), c.Param("postID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary      Delete the caller's post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /api/posts/{postID} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), middleware.UserID(c), c.Param("postID")); err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Param        request body models.CreateCommentRequest true "Comment content"
// @Success      201 {object} models.Comment
// @Router       /api/posts/{postID}/comments [post]
func (h *PostHandler) AddComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.posts.AddComment(c.Request.Context(), middleware.UserID(c), c.Param("postID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment godoc
// @Summary      Delete the caller's comment
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Param        commentID path string true "Comment ID"
// @Success      200 {object} map[string]string
// @Router       /api/posts/{postID}/comments/{commentID} [delete]
func (h *PostHandler) DeleteComment(c *gin.Context) {
	err := h.posts.DeleteComment(c.Request.Context(), middleware.UserID(c), c.Param("postID"), c.Param("commentID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// Upvote godoc
// @Summary      Toggle an upvote on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Success      200 {object} models.PublicPost
// @Router       /api/posts/{postID}/upvote [post]
func (h *PostHandler) Upvote(c *gin.Context) {
	post, err := h.posts.Upvote(c.Request.Context(), middleware.UserID(c), c.Param("postID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusOK, post)
}

// Downvote godoc
// @Summary      Toggle a downvote on a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postID path string true "Post ID"
// @Success      200 {object} models.PublicPost
// @Router       /api/posts/{postID}/downvote [post]
func (h *PostHandler) Downvote(c *gin.Context) {
	post, err := h.posts.Downvote(c.Request.Context(), middleware.UserID(c), c.Param("postID"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshAll()
	c.JSON(http.StatusOK, post)
}
