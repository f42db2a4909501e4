// Package gin serves the scrape API over HTTP using the gin router.
package gin

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/mlscrape"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server exposes a ScrapeService as a JSON API.
type Server struct {
	Scraper mlscrape.ScrapeService
	Readers mlscrape.RowReaders
	Logger  *slog.Logger

	// Domain and Limit control link harvesting from uploaded files.
	Domain string
	Limit  int

	// TempDir receives uploads while they are read. Defaults to os.TempDir.
	TempDir string

	// Now is used for export filenames.
	Now func() time.Time

	router *gin.Engine
}

// NewServer returns a Server with its routes registered.
func NewServer(scraper mlscrape.ScrapeService, readers mlscrape.RowReaders, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		Scraper: scraper,
		Readers: readers,
		Logger:  logger,
		Domain:  mlscrape.DefaultDomain,
		Limit:   mlscrape.DefaultBatchLimit,
		TempDir: os.TempDir(),
		Now:     time.Now,
	}

	router := gin.New()
	router.Use(cors.Default())
	router.Use(s.requestLogger())
	router.Use(recovery())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/scrape", s.handleScrape)
		api.POST("/scrape/batch", s.handleScrapeBatch)
		api.POST("/export", s.handleExport)
	}

	s.router = router
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleScrape(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		s.writeError(c, mlscrape.Errorf(mlscrape.EINVALID, "URL is required"))
		return
	}

	result := s.Scraper.Scrape(c.Request.Context(), url)
	if !result.Success {
		s.writeError(c, result.Err())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleScrapeBatch(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, mlscrape.Errorf(mlscrape.EINVALID, "no file uploaded"))
		return
	}

	reader, err := s.Readers.For(header.Filename)
	if err != nil {
		s.writeError(c, err)
		return
	}

	path := filepath.Join(s.TempDir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.Logger.Warn("remove upload", "path", path, "error", err)
		}
	}()

	rows, err := readUpload(c, header, path, reader)
	if err != nil {
		s.Logger.Error("read upload", "file", header.Filename, "error", err)
		s.writeError(c, mlscrape.Errorf(mlscrape.EINTERNAL, "failed to process batch file"))
		return
	}

	links, err := mlscrape.Harvest(rows, s.Domain, s.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	outcome, err := s.Scraper.ScrapeBatch(c.Request.Context(), links, nil)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleExport(c *gin.Context) {
	var req struct {
		Results []*mlscrape.ExtractionResult `json:"results"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, mlscrape.Errorf(mlscrape.EINVALID, "invalid export request: %v", err))
		return
	}
	if len(req.Results) == 0 {
		s.writeError(c, mlscrape.Errorf(mlscrape.EINVALID, "no results to export"))
		return
	}

	table := mlscrape.NewExportTable(req.Results)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", mlscrape.ExportFilename(s.Now())))
	c.Status(http.StatusOK)
	if err := table.WriteCSV(c.Writer); err != nil {
		s.Logger.Error("write export", "error", err)
	}
}

func readUpload(c *gin.Context, header *multipart.FileHeader, path string, reader mlscrape.RowReader) ([]mlscrape.Row, error) {
	if err := c.SaveUploadedFile(header, path); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return reader.ReadRows(f)
}

// writeError writes err as a JSON error body with a status derived from its
// code. Internal errors are also logged.
func (s *Server) writeError(c *gin.Context, err error) {
	code, message := mlscrape.ErrorCode(err), mlscrape.ErrorMessage(err)
	if code == mlscrape.EINTERNAL {
		s.Logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(ErrorStatusCode(code), gin.H{"error": message})
}

// ErrorStatusCode maps an application error code to an HTTP status.
func ErrorStatusCode(code string) int {
	switch code {
	case mlscrape.EINVALID:
		return http.StatusBadRequest
	case mlscrape.ENOTFOUND:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error."})
	})
}
