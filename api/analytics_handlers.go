package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/compra-app/compra-go/analytics"
)

// HandleSurveyAnalytics serves the merged rollup plus computed breakdowns,
// optionally restricted by startDate/endDate query parameters.
func (s *Server) HandleSurveyAnalytics(c *gin.Context) {
	start, ok := parseTimeQuery(c, "startDate")
	if !ok {
		respondError(c, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return
	}
	end, ok := parseTimeQuery(c, "endDate")
	if !ok {
		respondError(c, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return
	}

	report, err := s.Engine.Detailed(c.Request.Context(), c.Param("id"), analytics.Window{Start: start, End: end})
	if err != nil {
		s.analysisError(c, "Failed to fetch analytics", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) HandleSentimentAnalysis(c *gin.Context) {
	report, err := s.Engine.Sentiment(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.analysisError(c, "Failed to perform sentiment analysis", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) HandleCorrelationAnalysis(c *gin.Context) {
	report, err := s.Engine.Correlation(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.analysisError(c, "Failed to perform correlation analysis", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) HandleCompletionPrediction(c *gin.Context) {
	report, err := s.Engine.Completion(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.analysisError(c, "Failed to generate completion predictions", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) HandleUserJourney(c *gin.Context) {
	report, err := s.Engine.Journey(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.analysisError(c, "Failed to analyze user journeys", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) analysisError(c *gin.Context, message string, err error) {
	if errors.Is(err, analytics.ErrSurveyNotFound) {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}
	s.internalError(c, message, err)
}
