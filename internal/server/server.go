// Package server wires the HTTP API: paper listings, hybrid search and the
// natural-language QA endpoints.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openscholar/papergraph/internal/authors"
	"github.com/openscholar/papergraph/internal/config"
	"github.com/openscholar/papergraph/internal/content"
	"github.com/openscholar/papergraph/internal/driver"
	"github.com/openscholar/papergraph/internal/interaction"
	"github.com/openscholar/papergraph/internal/llm"
	"github.com/openscholar/papergraph/internal/model"
	"github.com/openscholar/papergraph/internal/papers"
	"github.com/openscholar/papergraph/internal/qa"
	"github.com/openscholar/papergraph/internal/search"
	"github.com/openscholar/papergraph/internal/thread"
	"github.com/openscholar/papergraph/pkg/logger"
)

type Server struct {
	Config     *config.Config
	Driver     driver.GraphDriver
	Store      *papers.Store
	Authors    *authors.Store
	Retriever  *search.Retriever
	Translator *qa.Translator
	Summarizer *qa.Summarizer
	Analyzer   *interaction.Analyzer
	Classifier *content.Classifier
}

// NewServer loads configuration, connects to the graph store and builds the
// LLM clients. Startup failures are fatal; a half-wired server is worse than
// no server.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfgPath).Msg("config file not loaded, using defaults")
		cfg = config.Default()
	}
	applyEnvOverrides(cfg)
	logger.Init(cfg.Server.LogLevel)

	d, err := driver.NewNeo4jDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password,
		time.Duration(cfg.Neo4j.QueryTimeoutMS)*time.Millisecond, cfg.Neo4j.RowCap)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Neo4j")
	}
	if err := d.BuildSchema(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("schema setup incomplete")
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM client")
	}

	classifier := content.NewClassifier(content.DefaultConfig())
	analyzerCfg := interaction.DefaultConfig()
	if len(cfg.Interaction.AuthorRoles) > 0 {
		analyzerCfg.AuthorRoles = cfg.Interaction.AuthorRoles
	}
	if cfg.Interaction.WordCap > 0 {
		analyzerCfg.WordCap = cfg.Interaction.WordCap
	}
	if cfg.Interaction.DepthCap > 0 {
		analyzerCfg.DepthCap = cfg.Interaction.DepthCap
	}
	if cfg.Interaction.CountCap > 0 {
		analyzerCfg.CountCap = cfg.Interaction.CountCap
	}

	return &Server{
		Config:     cfg,
		Driver:     d,
		Store:      papers.NewStore(d),
		Authors:    authors.NewStore(d),
		Retriever:  search.NewRetriever(d, embedderClient, cfg.Search.RRFK, cfg.Search.CandidateLimit),
		Translator: qa.NewTranslator(d, llmClient, cfg.QA.MaxRowsToLLM),
		Summarizer: qa.NewSummarizer(llmClient),
		Analyzer:   interaction.NewAnalyzer(analyzerCfg, classifier),
		Classifier: classifier,
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logger.GinLogger(), logger.GinRecovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = s.Config.Server.CORSOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.Health)

	api := r.Group("/api")
	{
		api.GET("/papers", s.ListPapers)
		api.GET("/papers/stats", s.PaperStats)
		api.GET("/papers/:id", s.GetPaper)
		api.POST("/papers/:id/review-summary", s.ReviewSummary)

		api.GET("/authors/search", s.SearchAuthors)
		api.GET("/authors/top", s.TopAuthors)
		api.GET("/authors/:id", s.GetAuthor)
		api.GET("/authors/:id/collaborators", s.AuthorCollaborators)

		api.GET("/search", s.SearchPapers)

		api.POST("/qa/ask", s.Ask)
		api.GET("/qa/examples", s.QAExamples)
	}

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListPapers(c *gin.Context) {
	f := papers.Filter{
		Conference: c.Query("conference"),
		Status:     c.Query("status"),
		Keyword:    c.Query("keyword"),
		Title:      c.Query("title"),
		SortBy:     c.Query("sort_by"),
		Order:      c.Query("order"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 20),
	}

	list, err := s.Store.List(c.Request.Context(), f)
	if err != nil {
		logger.Error().Err(err).Msg("paper listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list papers"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) PaperStats(c *gin.Context) {
	stats, err := s.Store.Stats(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("statistics query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// paperResponse is the detail payload: the paper plus its reviews threaded
// into a forest. The forest cannot live on model.PaperDetail itself because
// thread already depends on model.
type paperResponse struct {
	*model.PaperDetail
	Threads thread.Forest `json:"threads"`
}

// GetPaper returns a paper with its reviews, the threaded discussion forest
// (empty branches pruned), and the interaction metrics derived from the
// threads. Everything derived is recomputed on every call; the review set is
// small enough that caching is not worth the staleness.
func (s *Server) GetPaper(c *gin.Context) {
	paperID := c.Param("id")

	detail, err := s.Store.Get(c.Request.Context(), paperID)
	if err != nil {
		if errors.Is(err, papers.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		logger.Error().Err(err).Str("paper_id", paperID).Msg("paper fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch paper"})
		return
	}

	forest, notes := thread.BuildForest(detail.Reviews)
	for _, note := range notes {
		logger.Warn().
			Str("paper_id", paperID).
			Str("kind", note.Kind).
			Str("record_id", note.RecordID).
			Str("detail", note.Detail).
			Msg("review thread data quality issue")
	}

	// Metrics run on the full forest; the served threads drop branches with
	// no displayable content.
	summary := s.Analyzer.Analyze(forest)
	detail.AuthorWordCount = summary.AuthorWordCount
	detail.ReviewerWordCount = summary.ReviewerWordCount
	detail.InteractionRounds = summary.Rounds
	detail.BattleIntensity = summary.Intensity

	c.JSON(http.StatusOK, paperResponse{
		PaperDetail: detail,
		Threads:     s.Classifier.PruneForest(forest),
	})
}

func (s *Server) ReviewSummary(c *gin.Context) {
	paperID := c.Param("id")

	detail, err := s.Store.Get(c.Request.Context(), paperID)
	if err != nil {
		if errors.Is(err, papers.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
			return
		}
		logger.Error().Err(err).Str("paper_id", paperID).Msg("paper fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch paper"})
		return
	}

	official := make([]model.Review, 0, len(detail.Reviews))
	for _, r := range detail.Reviews {
		if r.ReviewType == model.TypeOfficialReview {
			official = append(official, r)
		}
	}
	if len(official) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper has no official reviews to summarize"})
		return
	}

	summary, err := s.Summarizer.Summarize(c.Request.Context(), paperID, detail.Title, official)
	if err != nil {
		logger.Error().Err(err).Str("paper_id", paperID).Msg("review summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate review summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) SearchAuthors(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}

	results, err := s.Authors.Search(c.Request.Context(), query, intQuery(c, "limit", 20))
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("author search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Author search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) TopAuthors(c *gin.Context) {
	rankings, err := s.Authors.Top(c.Request.Context(), c.Query("conference"), intQuery(c, "limit", 50))
	if err != nil {
		logger.Error().Err(err).Msg("top authors query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank authors"})
		return
	}
	c.JSON(http.StatusOK, rankings)
}

func (s *Server) GetAuthor(c *gin.Context) {
	authorID := c.Param("id")

	detail, err := s.Authors.Get(c.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		logger.Error().Err(err).Str("author_id", authorID).Msg("author fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch author"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) AuthorCollaborators(c *gin.Context) {
	authorID := c.Param("id")

	collaborators, err := s.Authors.Collaborators(c.Request.Context(), authorID, intQuery(c, "limit", 50))
	if err != nil {
		if errors.Is(err, authors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
			return
		}
		logger.Error().Err(err).Str("author_id", authorID).Msg("collaborator fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collaborators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorid":      authorID,
		"collaborators": collaborators,
		"count":         len(collaborators),
	})
}

func (s *Server) SearchPapers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}
	limit := intQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := s.Retriever.Search(c.Request.Context(), query, limit)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":             query,
		"results":           result.Hits,
		"count":             len(result.Hits),
		"semantic_degraded": result.SemanticDegraded,
	})
}

func (s *Server) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must include a 'question' field"})
		return
	}

	res := s.Translator.Ask(c.Request.Context(), req.Question)

	resp := model.AskResponse{
		ID:          res.ID,
		Answer:      res.Answer,
		CypherQuery: res.CypherQuery,
		Confidence:  res.Confidence,
		QueryType:   res.QueryType,
	}
	if req.IncludeSources {
		resp.RawResults = res.Rows
	}
	c.JSON(http.StatusOK, resp)
}

var exampleQuestions = []string{
	"How many papers were accepted to ICLR 2025?",
	"Which keywords are most common in accepted papers?",
	"Who are the most prolific authors across all conferences?",
	"What is the average rating of accepted vs rejected papers?",
	"Which ICML papers about reinforcement learning were accepted as orals?",
	"Compare the acceptance rates of ICLR and NeurIPS",
}

func (s *Server) QAExamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"examples": exampleQuestions})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
