package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Manoj010104/news-summarizer/internal/logger"
	"github.com/Manoj010104/news-summarizer/internal/metrics"
	"github.com/Manoj010104/news-summarizer/internal/news"
)

// ArticlesResponse is the body of GET /api/articles.
type ArticlesResponse struct {
	Keyword  string      `json:"keyword"`
	Articles []news.Item `json:"articles"`
	Message  string      `json:"message,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type SummarizeRequest struct {
	Text string `json:"text"`
}

type FavoriteRequest struct {
	Article news.Article `json:"article"`
}

// Server exposes a Session over HTTP.
type Server struct {
	session *Session
	metrics *metrics.Metrics
}

func NewServer(session *Session, m *metrics.Metrics) *Server {
	if m == nil {
		m = metrics.Global
	}
	return &Server{session: session, metrics: m}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)

	g := r.Group("/api")
	g.GET("/articles", s.handleArticles)
	g.POST("/summarize", s.handleSummarize)
	g.GET("/favorites", s.handleListFavorites)
	g.POST("/favorites", s.handleAddFavorite)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()
		logger.Info("http request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	stats := s.metrics.GetStats()

	status := "ok"
	code := http.StatusOK
	if !s.metrics.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *Server) handleArticles(c *gin.Context) {
	keyword := c.Query("q")

	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ArticlesResponse{Keyword: keyword, Articles: []news.Item{}, Error: "count must be an integer"})
			return
		}
		count = n
	}

	items, err := s.session.Search(c.Request.Context(), keyword, count, queryBool(c, "images", true), queryBool(c, "summary", true))
	if err != nil {
		code := http.StatusBadGateway
		if IsInputError(err) {
			code = http.StatusBadRequest
		}
		c.JSON(code, ArticlesResponse{Keyword: keyword, Articles: []news.Item{}, Error: err.Error()})
		return
	}

	resp := ArticlesResponse{Keyword: keyword, Articles: items}
	if len(items) == 0 {
		resp.Message = noArticlesMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := s.session.SummarizeText(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{
		"summary": item.AISummary,
		"status":  item.SummaryStatus,
		"scores":  item.Scores,
	})
}

func (s *Server) handleListFavorites(c *gin.Context) {
	items := s.session.Favorites(c.Request.Context(), queryBool(c, "images", true))
	c.JSON(http.StatusOK, gin.H{"favorites": items, "count": len(items)})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Article.Link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article link is required"})
		return
	}

	added := s.session.AddFavorite(req.Article)
	c.JSON(http.StatusOK, gin.H{"added": added, "count": s.session.favorites.Len()})
}

func queryBool(c *gin.Context, key string, def bool) bool {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
