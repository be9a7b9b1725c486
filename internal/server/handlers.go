package server

import (
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/pkg/entity"
	"github.com/jmylchreest/pagelens/pkg/pagelens"
)

type summarizeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode" binding:"omitempty,oneof=detailed brief"`
}

type answerRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

type categorizeRequest struct {
	Text string `json:"text"`
}

type categorizeResponse struct {
	Success    bool            `json:"success"`
	Entities   []entity.Entity `json:"entities"`
	Count      int             `json:"count"`
	TextLength int             `json:"text_length"`
	Sentences  int             `json:"sentences"`
}

// bind decodes the JSON body into req. An empty body decodes as an empty
// request so it is reported as missing text. The returned status is
// non-zero when the request must be rejected at the HTTP level.
func bind(c *gin.Context, req any) (int, error) {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return 0, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.New("Request body too large") //nolint:staticcheck // client-facing message
	}
	return 0, err
}

func (s *Server) handleSummarize(c *gin.Context) {
	const endpoint = "summarize"
	start := time.Now()
	ctx := c.Request.Context()

	var req summarizeRequest
	status, err := bind(c, &req)
	if status != 0 {
		s.metrics.observe(endpoint, outcomeInvalid, start, 0)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			s.reject(c, endpoint, start, err, nil)
			return
		}
		if req.Text == "" {
			s.reject(c, endpoint, start, pagelens.ErrNoText, nil)
			return
		}
		_, err = pagelens.ParseMode(req.Mode)
		s.reject(c, endpoint, start, err, nil)
		return
	}

	mode, err := pagelens.ParseMode(req.Mode)
	if err != nil {
		s.reject(c, endpoint, start, err, nil)
		return
	}

	summary, err := s.analyzer.Summarize(ctx, req.Text, mode)
	if err != nil {
		s.reject(c, endpoint, start, err, nil)
		return
	}

	s.metrics.observe(endpoint, outcomeOK, start, utf8.RuneCountInString(req.Text))
	logger.DebugContext(ctx, "summary generated", "mode", mode, "length", len(summary))
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (s *Server) handleAnswer(c *gin.Context) {
	const endpoint = "answer"
	start := time.Now()

	var req answerRequest
	status, err := bind(c, &req)
	if status != 0 {
		s.metrics.observe(endpoint, outcomeInvalid, start, 0)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.reject(c, endpoint, start, err, nil)
		return
	}

	answer, err := s.analyzer.Answer(c.Request.Context(), req.Text, req.Question)
	if err != nil {
		s.reject(c, endpoint, start, err, nil)
		return
	}

	s.metrics.observe(endpoint, outcomeOK, start, utf8.RuneCountInString(req.Text))
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *Server) handleCategorize(c *gin.Context) {
	const endpoint = "categorize"
	start := time.Now()
	noEntities := gin.H{"entities": []entity.Entity{}}

	var req categorizeRequest
	status, err := bind(c, &req)
	if status != 0 {
		s.metrics.observe(endpoint, outcomeInvalid, start, 0)
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "entities": []entity.Entity{}})
		return
	}
	if err != nil {
		s.reject(c, endpoint, start, err, noEntities)
		return
	}

	result, err := s.analyzer.Categorize(c.Request.Context(), req.Text)
	if err != nil {
		s.reject(c, endpoint, start, err, noEntities)
		return
	}

	s.metrics.observe(endpoint, outcomeOK, start, result.TextLength)
	s.metrics.countEntities(result.Entities)
	c.JSON(http.StatusOK, categorizeResponse{
		Success:    true,
		Entities:   result.Entities,
		Count:      len(result.Entities),
		TextLength: result.TextLength,
		Sentences:  result.Sentences,
	})
}

// reject answers with HTTP 200 and an error field, plus any extra fields.
// Missing text and bad modes are client mistakes; anything else is logged
// as a processing failure.
func (s *Server) reject(c *gin.Context, endpoint string, start time.Time, err error, extra gin.H) {
	outcome := outcomeError
	if errors.Is(err, pagelens.ErrNoText) || errors.Is(err, pagelens.ErrInvalidMode) {
		outcome = outcomeInvalid
	} else {
		logger.ErrorContext(c.Request.Context(), "request failed", "endpoint", endpoint, "error", err)
	}
	s.metrics.observe(endpoint, outcome, start, 0)
	_ = c.Error(err)

	body := gin.H{"error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: s.service,
		Version: s.version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}
