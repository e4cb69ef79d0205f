package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListFinancials(c *gin.Context) {
	txns, err := s.financialSvc.ListForCaller(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}
