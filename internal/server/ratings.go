package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ratingdomain "github.com/forgenet/forgenet/internal/rating/domain"
)

type submitRatingRequest struct {
	JobID   string `json:"job_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) SubmitRating(c *gin.Context) {
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	r, err := s.ratingSvc.Submit(c.Request.Context(), ratingdomain.SubmitRatingRequest{
		JobID:   req.JobID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r)
}
