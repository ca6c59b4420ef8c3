package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/compra-app/compra-go/html"
)

// HandleSurveyScript serves the self-contained embeddable script for a
// survey. Generated scripts are cached per survey revision.
func (s *Server) HandleSurveyScript(c *gin.Context) {
	ctx := c.Request.Context()
	survey, err := s.DB.Surveys.FindByID(ctx, c.Param("id"))
	if err != nil {
		s.internalError(c, "Failed to generate survey script", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}

	body, cached := s.Cache.GetScript(survey.ID, survey.UpdatedAt)
	if !cached {
		form := html.Compile(survey, s.submitURL())
		body = html.Script(form)
		s.Cache.SetScript(survey.ID, survey.UpdatedAt, body)
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(body))
}

// HandleSurveyBlock returns the rendered widget fragment for embedding in a
// merchant theme, alongside the compiled form description.
func (s *Server) HandleSurveyBlock(c *gin.Context) {
	survey, err := s.DB.Surveys.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.internalError(c, "Failed to generate survey block", err)
		return
	}
	if survey == nil {
		respondError(c, http.StatusNotFound, "Survey not found")
		return
	}

	form := html.Compile(survey, s.submitURL())
	c.JSON(http.StatusOK, gin.H{
		"containerId": form.ContainerID,
		"code":        html.RenderBlock(form),
		"form":        form,
	})
}

func (s *Server) submitURL() string {
	return fmt.Sprintf("%s/api/survey-responses", s.Host)
}
