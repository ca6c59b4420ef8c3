package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compra-app/compra-go/aggregate"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/targeting"
)

// HandleSubmitResponse records a shopper submission and folds it into the
// rollup.
func (s *Server) HandleSubmitResponse(c *gin.Context) {
	var req models.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "surveyId, responses and customerType are required")
		return
	}

	resp, err := s.Aggregator.RecordResponse(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, aggregate.ErrSurveyNotFound) {
			respondError(c, http.StatusNotFound, "Survey not found")
			return
		}
		s.internalError(c, "Failed to submit response", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// HandleRecordView counts one display of a survey. Views are explicit so
// fetching a survey never double-counts.
func (s *Server) HandleRecordView(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	survey, err := s.DB.Surveys.FindByID(ctx, id)
	if err != nil {
		s.internalError(c, "Failed to record view", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}

	if err := s.DB.Analytics.Init(ctx, id); err != nil {
		s.internalError(c, "Failed to record view", err)
		return
	}
	if err := s.DB.Analytics.IncrementViews(ctx, id); err != nil {
		s.internalError(c, "Failed to record view", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View recorded"})
}

// HandleLegacyFetchSurvey serves the checkout extension, which expects the
// single highest-priority deliverable survey with no store scoping. It is a
// thin alias over the canonical evaluator ranking.
func (s *Server) HandleLegacyFetchSurvey(c *gin.Context) {
	survey, err := s.DB.Surveys.FindTopDeliverable(c.Request.Context(), time.Now())
	if err != nil {
		s.internalError(c, "Failed to fetch survey", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "No active survey")
		return
	}
	if !targeting.Matches(survey, targeting.ShopperContext{}) {
		respondError(c, http.StatusNotFound, "No active survey")
		return
	}
	c.JSON(http.StatusOK, survey)
}

// HandleLegacySubmitResponse accepts the checkout extension's answers-by-
// question-ID map and delegates to the canonical aggregator.
func (s *Server) HandleLegacySubmitResponse(c *gin.Context) {
	var req models.LegacyResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SurveyID == "" || len(req.Responses) == 0 {
		respondError(c, http.StatusBadRequest, "surveyId and responses are required")
		return
	}

	ctx := c.Request.Context()
	survey, err := s.DB.Surveys.FindByID(ctx, req.SurveyID)
	if err != nil {
		s.internalError(c, "Failed to submit response", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}

	// Rebuild the ordered tuple list from the map, following the survey's
	// question order so journey paths stay meaningful.
	canonical := models.SubmitResponseRequest{
		SurveyID:     req.SurveyID,
		CustomerType: models.CustomerReturning,
	}
	if req.CustomerID == "" {
		canonical.CustomerType = models.CustomerNew
	}
	for _, q := range survey.Questions {
		answer, answered := req.Responses[q.ID]
		if !answered {
			answer = models.NullAnswer()
		}
		canonical.Responses = append(canonical.Responses, models.QuestionResponse{
			QuestionID: q.ID,
			Answer:     answer,
		})
	}

	resp, err := s.Aggregator.RecordResponse(ctx, &canonical)
	if err != nil {
		s.internalError(c, "Failed to submit response", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
