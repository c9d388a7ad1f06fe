package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dungeonlive/dungeon-backend/internal/http/handlers/common"
	"github.com/dungeonlive/dungeon-backend/internal/service"
)

// FeedHandler лента постов.
type FeedHandler struct {
	feed      *service.FeedService
	purchases *service.PurchaseService
}

func NewFeedHandler(feed *service.FeedService, purchases *service.PurchaseService) *FeedHandler {
	return &FeedHandler{feed: feed, purchases: purchases}
}

// List GET /feed
func (h *FeedHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	posts, err := h.feed.Feed(c.Request.Context(), userID, c.Query("performer_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Create POST /feed
func (h *FeedHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Caption     string `json:"caption"`
		Type        string `json:"type" binding:"required"`
		MediaURL    string `json:"media_url"`
		UnlockPrice int64  `json:"unlock_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.feed.CreatePost(c.Request.Context(), userID, req.Caption, req.Type, req.MediaURL, req.UnlockPrice)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Like POST /feed/:id/like
func (h *FeedHandler) Like(c *gin.Context) {
	postID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	likes, err := h.feed.LikePost(c.Request.Context(), postID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// Unlock POST /feed/:id/unlock
func (h *FeedHandler) Unlock(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	postID, err := common.RequireParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.purchases.UnlockPost(c.Request.Context(), userID, postID)
	respondSettle(c, result, err)
}
