package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
)

type listManufacturersQuery struct {
	Material      string `form:"material"`
	ToleranceTier string `form:"tolerance_tier"`
}

func (s *Server) ListManufacturers(c *gin.Context) {
	var query listManufacturersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ms, err := s.manufacturerSvc.List(c.Request.Context(), manufacturerdomain.ListManufacturersRequest{
		Material:      query.Material,
		ToleranceTier: query.ToleranceTier,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"manufacturers": ms})
}

func (s *Server) GetManufacturer(c *gin.Context) {
	m, err := s.manufacturerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

type upsertProfileRequest struct {
	LocationState string         `json:"location_state"`
	LocationZip   string         `json:"location_zip"`
	Equipment     map[string]any `json:"equipment"`
	Materials     []string       `json:"materials"`
	ToleranceTier string         `json:"tolerance_tier"`
	CapacityScore float64        `json:"capacity_score"`
}

func (s *Server) UpsertManufacturerProfile(c *gin.Context) {
	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	m, err := s.manufacturerSvc.UpsertProfile(c.Request.Context(), manufacturerdomain.UpsertProfileRequest{
		LocationState: req.LocationState,
		LocationZip:   req.LocationZip,
		Equipment:     req.Equipment,
		Materials:     req.Materials,
		ToleranceTier: req.ToleranceTier,
		CapacityScore: req.CapacityScore,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}
