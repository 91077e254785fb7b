// Package transfer serves a directory over HTTP while the radio is joined
// to a network in station mode.
package transfer

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/models"
	"cardputer_radio/internal/radio"
	"cardputer_radio/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

const (
	maxUploadBytes  = 64 << 20
	eventQueueSize  = 256
	shutdownTimeout = 5 * time.Second
)

var errBadName = errors.New("invalid file name")

type fileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type statEvent struct {
	kind  string
	bytes int64
}

// Server implements radio.Transfer on top of an afero filesystem.
type Server struct {
	fs   afero.Fs
	addr string
	log  *logger.Logger

	mu      sync.Mutex
	srv     *server.Server
	running bool
	stats   models.TransferStats

	events chan statEvent
}

var _ radio.Transfer = (*Server)(nil)

// New serves files from fsys on addr once started.
func New(fsys afero.Fs, addr string, log *logger.Logger) *Server {
	return &Server{
		fs:     fsys,
		addr:   addr,
		log:    logger.OrNop(log).Named("transfer"),
		events: make(chan statEvent, eventQueueSize),
	}
}

// NewOS roots the server at dir on the local disk, creating it if needed.
func NewOS(dir, addr string, log *logger.Logger) (*Server, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return New(afero.NewBasePathFs(osFs, dir), addr, log), nil
}

func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/files", s.list)
	r.POST("/files", s.upload)
	r.GET("/files/*name", s.download)
	r.DELETE("/files/*name", s.remove)
	return r
}

// cleanName maps a request path to a name relative to the root. Any ".."
// segment is refused.
func cleanName(raw string) (string, error) {
	name := strings.Trim(strings.ReplaceAll(raw, "\\", "/"), "/")
	if name == "" {
		return "", errBadName
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", errBadName
		}
	}
	name = path.Clean(name)
	if name == "." {
		return "", errBadName
	}
	return name, nil
}

func (s *Server) list(c *gin.Context) {
	entries, err := afero.ReadDir(s.fs, "/")
	if err != nil {
		s.log.Errorw("transfer_list_failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}
	files := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, fileInfo{Name: e.Name(), Size: e.Size(), Modified: e.ModTime().UTC()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) download(c *gin.Context) {
	name, err := cleanName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := s.fs.Open("/" + name)
	if err != nil {
		s.fileError(c, "transfer_open_failed", name, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.fileError(c, "transfer_stat_failed", name, err)
		return
	}
	if info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a file"})
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", f, map[string]string{
		"Content-Disposition": `attachment; filename="` + path.Base(name) + `"`,
	})
	s.emit(statEvent{kind: "download", bytes: info.Size()})
}

func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	name, err := cleanName(path.Base(strings.ReplaceAll(header.Filename, "\\", "/")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	dst, err := s.fs.Create("/" + name)
	if err != nil {
		s.fileError(c, "transfer_create_failed", name, err)
		return
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove("/" + name)
		s.fileError(c, "transfer_write_failed", name, err)
		return
	}

	s.log.Infow("transfer_uploaded", "name", name, "bytes", n)
	s.emit(statEvent{kind: "upload", bytes: n})
	c.JSON(http.StatusCreated, fileInfo{Name: name, Size: n, Modified: time.Now().UTC()})
}

func (s *Server) remove(c *gin.Context) {
	name, err := cleanName(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.fs.Remove("/" + name); err != nil {
		s.fileError(c, "transfer_delete_failed", name, err)
		return
	}
	s.log.Infow("transfer_deleted", "name", name)
	s.emit(statEvent{kind: "delete"})
	c.Status(http.StatusNoContent)
}

func (s *Server) fileError(c *gin.Context, event, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	s.log.Errorw(event, "err", err, "name", name)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "file operation failed"})
}

func (s *Server) emit(ev statEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

// Start serves on the configured address. A bind failure is logged and
// leaves the server stopped.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.stopLocked()
	}
	srv := &server.Server{}
	if err := srv.Start(s.addr, s.Handler()); err != nil {
		s.log.Errorw("transfer_listen_failed", "err", err, "addr", s.addr)
		return
	}
	s.srv = srv
	s.running = true
	s.log.Infow("transfer_up", "addr", srv.Addr())
}

func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Server) stopLocked() {
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.srv.Shutdown(ctx); err != nil {
			s.log.Errorw("transfer_shutdown_failed", "err", err)
		}
		cancel()
		s.srv = nil
	}
	s.running = false
}

// Tick folds completed transfers into Stats.
func (s *Server) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		select {
		case ev := <-s.events:
			switch ev.kind {
			case "upload":
				s.stats.Uploads++
				s.stats.BytesIn += ev.bytes
			case "download":
				s.stats.Downloads++
				s.stats.BytesOut += ev.bytes
			case "delete":
				s.stats.Deletes++
			}
		default:
			return
		}
	}
}

func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) Stats() models.TransferStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.Addr()
}
