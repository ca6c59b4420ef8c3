package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/compra-app/compra-go/config"
	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/targeting"
	"github.com/compra-app/compra-go/utils"
)

// HandleActiveSurveys runs the targeting evaluation for a shopper context
// and returns the single best-matching survey, or an empty array when
// nothing matches. Fetching never counts a view; displays are tracked
// per-visitor when a visitorId is supplied.
func (s *Server) HandleActiveSurveys(c *gin.Context) {
	storeID := c.Query("storeId")
	if storeID == "" {
		respondError(c, http.StatusBadRequest, "storeId is required")
		return
	}

	shopper := targeting.ShopperContext{
		CustomerType:    c.Query("customerType"),
		ProductCategory: c.Query("productCategory"),
		CurrentURL:      c.Query("currentUrl"),
	}
	if raw := c.Query("cartValue"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "cartValue must be a number")
			return
		}
		shopper.CartValue = &v
	}

	survey, err := s.Evaluator.SelectSurvey(c.Request.Context(), storeID, shopper, time.Now())
	if err != nil {
		s.internalError(c, "Failed to fetch active surveys", err)
		return
	}
	if survey == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}

	if visitorID := c.Query("visitorId"); visitorID != "" {
		maxDisplays := survey.DisplayRules.MaxDisplaysPerUser
		if maxDisplays == 0 {
			maxDisplays = config.DefaultMaxDisplays
		}
		if maxDisplays > 0 && s.Cache.DisplayCount(survey.ID, visitorID) >= maxDisplays {
			c.JSON(http.StatusOK, []any{})
			return
		}
		s.Cache.RecordDisplay(survey.ID, visitorID)
	}

	c.JSON(http.StatusOK, survey)
}

// HandleListSurveys lists a store's surveys newest-first.
func (s *Server) HandleListSurveys(c *gin.Context) {
	storeID := c.Query("storeId")
	if storeID == "" {
		respondError(c, http.StatusBadRequest, "storeId is required")
		return
	}
	surveys, err := s.DB.Surveys.FindByStore(c.Request.Context(), storeID)
	if err != nil {
		s.internalError(c, "Failed to fetch surveys", err)
		return
	}
	if surveys == nil {
		surveys = []*models.Survey{}
	}
	c.JSON(http.StatusOK, surveys)
}

// HandleCreateSurvey creates a survey for an existing store and initializes
// its analytics rollup.
func (s *Server) HandleCreateSurvey(c *gin.Context) {
	var req models.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "storeId, title and questions are required")
		return
	}

	ctx := c.Request.Context()
	owner, err := s.DB.Stores.FindByID(ctx, req.StoreID)
	if err != nil {
		s.internalError(c, "Failed to create survey", err)
		return
	}
	if owner == nil {
		respondError(c, http.StatusNotFound, "Store not found")
		return
	}

	now := time.Now().UTC()
	survey := &models.Survey{
		ID:             utils.NewID(),
		StoreID:        req.StoreID,
		Title:          req.Title,
		Description:    req.Description,
		Questions:      make([]models.Question, len(req.Questions)),
		Active:         false,
		Priority:       req.Priority,
		Status:         models.StatusDraft,
		TargetAudience: req.TargetAudience,
		DisplayRules:   req.DisplayRules,
		Style:          req.Style.Merge(owner.Settings.DefaultSurveyStyle),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i, q := range req.Questions {
		if q.ID == "" {
			q.ID = utils.NewID()
		}
		if q.Options == nil {
			q.Options = []string{}
		}
		survey.Questions[i] = q
	}

	if err := s.DB.Surveys.Insert(ctx, survey); err != nil {
		s.internalError(c, "Failed to create survey", err)
		return
	}
	if err := s.DB.Analytics.Init(ctx, survey.ID); err != nil {
		s.internalError(c, "Failed to create survey", err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

// HandleUpdateStatus transitions a survey's lifecycle status.
func (s *Server) HandleUpdateStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}
	switch req.Status {
	case models.StatusDraft, models.StatusActive, models.StatusPaused, models.StatusCompleted:
	default:
		respondError(c, http.StatusBadRequest, "status must be one of draft, active, paused, completed")
		return
	}

	survey, err := s.DB.Surveys.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.internalError(c, "Failed to update survey", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}
	s.Cache.InvalidateScript(survey.ID)
	c.JSON(http.StatusOK, survey)
}

// HandleDeleteSurvey removes a survey and cascades deletion of its responses
// and analytics.
func (s *Server) HandleDeleteSurvey(c *gin.Context) {
	id := c.Param("id")
	deleted, err := s.DB.Surveys.Delete(c.Request.Context(), id)
	if err != nil {
		s.internalError(c, "Failed to delete survey", err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}
	s.Cache.ForgetSurvey(id)
	c.JSON(http.StatusOK, gin.H{"message": "Survey deleted"})
}

// HandlePublishSurvey registers the survey's embed script with the store's
// storefront.
func (s *Server) HandlePublishSurvey(c *gin.Context) {
	ctx := c.Request.Context()
	survey, err := s.DB.Surveys.FindByID(ctx, c.Param("id"))
	if err != nil {
		s.internalError(c, "Failed to publish survey", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}
	owner, err := s.DB.Stores.FindByID(ctx, survey.StoreID)
	if err != nil {
		s.internalError(c, "Failed to publish survey", err)
		return
	}
	if owner == nil {
		respondError(c, http.StatusNotFound, "Store not found")
		return
	}

	scriptURL := fmt.Sprintf("%s/surveys/%s/script.js", s.Host, survey.ID)
	tag, err := s.ScriptTags.Register(ctx, owner, scriptURL)
	if err != nil {
		s.internalError(c, "Failed to publish survey", err)
		return
	}

	if err := s.DB.Surveys.SetScriptTag(ctx, survey.ID, strconv.FormatInt(tag.ID, 10)); err != nil {
		s.internalError(c, "Failed to publish survey", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Survey published successfully", "scriptTag": tag})
}
