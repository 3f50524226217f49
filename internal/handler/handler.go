// Package handler exposes the alumni, import and job board HTTP endpoints.
package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"alumni/internal/alumni"
	"alumni/internal/archive"
	"alumni/internal/bulkimport"
	"alumni/internal/importjob"
	"alumni/internal/jobboard"
	"alumni/internal/queue"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Alumni      *alumni.Service
	Jobs        *jobboard.Service
	Preferences jobboard.PreferenceStore
	Imports     importjob.Store
	Queue       queue.Queue
	Archive     archive.Archiver
	Log         *logrus.Logger

	// MaxUploadBytes caps the import file size; zero means bulkimport.MaxFileSize.
	MaxUploadBytes int64
}

type Handler struct {
	alumni  *alumni.Service
	jobs    *jobboard.Service
	prefs   jobboard.PreferenceStore
	imports importjob.Store
	queue   queue.Queue
	archive archive.Archiver
	log     *logrus.Logger

	maxUpload int64
}

func New(d Deps) *Handler {
	if d.Archive == nil {
		d.Archive = archive.Nop{}
	}
	if d.Log == nil {
		d.Log = logrus.New()
		d.Log.SetOutput(io.Discard)
	}
	if d.MaxUploadBytes <= 0 || d.MaxUploadBytes > bulkimport.MaxFileSize {
		d.MaxUploadBytes = bulkimport.MaxFileSize
	}
	return &Handler{
		alumni:  d.Alumni,
		jobs:    d.Jobs,
		prefs:   d.Preferences,
		imports: d.Imports,
		queue:   d.Queue,
		archive: d.Archive,
		log:     d.Log,

		maxUpload: d.MaxUploadBytes,
	}
}

// Register mounts every route on r. admin guards record changes, exports and imports.
func (h *Handler) Register(r gin.IRouter, admin gin.HandlerFunc) {
	r.GET("/students", h.ListStudents)
	r.GET("/statistics", h.Statistics)

	r.GET("/jobs", h.ListPostings)
	r.POST("/jobs", h.CreatePosting)
	r.DELETE("/jobs/:id", h.DeletePosting)
	r.GET("/jobs/facets/:field", h.Facets)
	r.GET("/jobs/for-you", h.ForYou)

	r.GET("/preferences/:user_id", h.GetPreferences)
	r.PUT("/preferences/:user_id", h.PutPreferences)
	r.DELETE("/preferences/:user_id", h.DeletePreferences)

	adm := r.Group("", admin)
	adm.POST("/student", h.CreateStudent)
	adm.DELETE("/student/:id", h.DeleteStudent)
	adm.GET("/students/export", h.ExportStudents)

	imports := adm.Group("/v1/imports")
	imports.POST("", h.UploadImport)
	imports.POST("/:id/confirm", h.ConfirmImport)
	imports.GET("/:id", h.ImportStatus)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func (h *Handler) internal(c *gin.Context, err error, what string) {
	h.log.WithError(err).WithField("path", c.FullPath()).Error(what)
	fail(c, http.StatusInternalServerError, what)
}
