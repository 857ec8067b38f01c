package handlers

import (
	"io"
	"net/http"

	"bylines/internal/models"
	"bylines/internal/services"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignments *services.AssignmentService
	posts       postGetter
}

// postGetter is the minimal post lookup the handler needs.
type postGetter interface {
	GetPost(id int64) (*models.Post, error)
}

func NewAssignmentHandler(assignments *services.AssignmentService, posts postGetter) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, posts: posts}
}

// Get returns the expanded assignments for one post. A post touched for
// the first time is seeded with the default role and its platform author.
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.assignments.EnsureDefaultAssignment(id); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to seed assignments")
		return
	}
	expanded, err := h.assignments.Expand(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	c.JSON(http.StatusOK, expanded)
}

// Put replaces a post's assignments. The raw body goes through the
// sanitizer; whatever survives is persisted. The sanitized form is echoed
// back so the caller sees exactly what was stored.
func (h *AssignmentHandler) Put(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable request body")
		return
	}

	compact := h.assignments.Sanitize(raw)
	if err := h.assignments.Save(id, compact); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save assignments")
		return
	}
	c.JSON(http.StatusOK, compact)
}

// GetPost returns the post projection the editor store resolves: the
// platform author id plus the persisted compact assignments.
func (h *AssignmentHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	post, err := h.posts.GetPost(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}
	if post == nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}
	if err := h.assignments.EnsureDefaultAssignment(id); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to seed assignments")
		return
	}
	compact, err := h.assignments.Load(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load assignments")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          post.ID,
		"author":      post.AuthorID,
		"assignments": compact,
	})
}

// ListPosts returns the ids of posts referencing the given contributor.
func (h *AssignmentHandler) ListPosts(c *gin.Context) {
	contributor := int64(queryInt(c, "contributor"))
	if contributor <= 0 {
		respondError(c, http.StatusBadRequest, "contributor parameter is required")
		return
	}
	postIDs, err := h.assignments.PostsByContributor(contributor)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to query posts")
		return
	}
	if postIDs == nil {
		postIDs = []int64{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": postIDs})
}
