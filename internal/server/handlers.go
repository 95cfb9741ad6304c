package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kase1111-hash/speccheck/internal/analyze"
	"github.com/kase1111-hash/speccheck/internal/claim"
	"github.com/kase1111-hash/speccheck/internal/model"
	"github.com/kase1111-hash/speccheck/internal/verdict"
)

type parseRequest struct {
	Text   string            `json:"text" binding:"required"`
	Source model.ClaimSource `json:"source" binding:"omitempty,oneof=user_input listing ocr"`
}

type parsedClaim struct {
	Claim      model.Claim           `json:"claim"`
	Validation model.ClaimValidation `json:"validation"`
}

type verifyRequest struct {
	Claim      string                     `json:"claim" binding:"required"`
	Source     model.ClaimSource          `json:"source" binding:"omitempty,oneof=user_input listing ocr"`
	Product    string                     `json:"product"`
	Components []model.ComponentWithSpecs `json:"components"`
	All        bool                       `json:"all"` // Check every claim found in the text
}

type verifyResponse struct {
	Report   *model.Report  `json:"report"`
	Analysis model.Analysis `json:"analysis"`
}

type shareRequest struct {
	Verdict model.Verdict `json:"verdict"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = model.SourceUserInput
	}

	claims := s.analyzer.Parser().ParseMultiple(req.Text, source)
	if len(claims) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"err": analyze.ErrUnparsableClaim.Error()})
		return
	}

	out := make([]parsedClaim, 0, len(claims))
	for _, cl := range claims {
		out = append(out, parsedClaim{Claim: cl, Validation: claim.Validate(cl)})
	}
	c.JSON(http.StatusOK, gin.H{"claims": out})
}

func (s *Server) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	ar := analyze.Request{
		Claim:      req.Claim,
		Source:     req.Source,
		Product:    req.Product,
		Components: req.Components,
	}

	if req.All {
		reports, err := s.analyzer.AnalyzeText(c.Request.Context(), ar)
		if err != nil {
			s.fail(c, err)
			return
		}
		out := make([]verifyResponse, 0, len(reports))
		for _, r := range reports {
			out = append(out, verifyResponse{Report: r, Analysis: analyze.AnalysisOf(r)})
		}
		c.JSON(http.StatusOK, gin.H{"results": out})
		return
	}

	report, err := s.analyzer.Analyze(c.Request.Context(), ar)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, verifyResponse{Report: report, Analysis: analyze.AnalysisOf(report)})
}

func (s *Server) share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.Verdict.Result == "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": "verdict.result is required"})
		return
	}

	c.String(http.StatusOK, verdict.FormatForShare(req.Verdict))
}

// fail maps analyzer errors onto status codes
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, analyze.ErrUnparsableClaim):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"err": err.Error()})
	case errors.Is(err, model.ErrUnknownProfile):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
