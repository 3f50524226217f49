package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"alumni/internal/archive"
	"alumni/internal/auth"
	"alumni/internal/bulkimport"
	"alumni/internal/importjob"
	"alumni/internal/metrics"
)

// multipartSlack is the room left in an upload body for multipart framing.
const multipartSlack = 64 << 10

// UploadImport parses a multipart "file" upload into a previewed import session.
func (h *Handler) UploadImport(c *gin.Context) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, bulkimport.ErrFileTooLarge.Error())
			return
		}
		fail(c, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		fail(c, http.StatusRequestEntityTooLarge, bulkimport.ErrFileTooLarge.Error())
		return
	}
	if err := bulkimport.CheckFile(header.Filename, header.Size); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		h.internal(c, err, "read file failed")
		return
	}
	if int64(len(data)) > h.maxUpload {
		fail(c, http.StatusRequestEntityTooLarge, bulkimport.ErrFileTooLarge.Error())
		return
	}

	ids, err := h.alumni.ExistingIDs(ctx)
	if err != nil {
		h.internal(c, err, "failed to load existing alumni ids")
		return
	}
	sess, err := bulkimport.NewSession(header.Filename, bytes.NewReader(data), bulkimport.NewIDSet(ids...))
	if err != nil {
		var he *bulkimport.HeaderError
		if errors.As(err, &he) || errors.Is(err, bulkimport.ErrNoDataRows) {
			fail(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	summary := sess.Preview.Summary()
	metrics.ObservePreview(summary.Valid, summary.Invalid)

	log := h.log.WithFields(logrus.Fields{"session_id": sess.ID, "file": sess.FileName})
	if err := h.archive.Put(ctx, archive.ObjectKey(sess.ID, sess.FileName, sess.CreatedAt), data); err != nil {
		log.WithError(err).Warn("archiving upload failed")
	}
	if err := h.imports.Save(ctx, sess); err != nil {
		h.internal(c, err, "failed to store import session")
		return
	}
	log.WithFields(logrus.Fields{"valid": summary.Valid, "invalid": summary.Invalid}).Info("import previewed")

	c.JSON(http.StatusCreated, gin.H{"success": true, "summary": summary, "session": sess})
}

// ConfirmImport queues a previewed session for import.
func (h *Handler) ConfirmImport(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := h.imports.Get(ctx, c.Param("id"))
	if errors.Is(err, importjob.ErrNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.internal(c, err, "failed to load import session")
		return
	}
	if err := sess.Ready(); err != nil {
		fail(c, http.StatusConflict, err.Error())
		return
	}

	job := importjob.Job{SessionID: sess.ID}
	if claims, ok := auth.FromContext(c); ok {
		job.RequestedBy = claims.Subject
	}
	if err := importjob.Enqueue(ctx, h.queue, job); err != nil {
		h.log.WithError(err).Error("queue publish failed")
		fail(c, http.StatusServiceUnavailable, "import queue unavailable")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"total":      len(sess.Preview.Valid),
	})
}

// ImportStatus reports a session's state, progress and result.
func (h *Handler) ImportStatus(c *gin.Context) {
	sess, err := h.imports.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, importjob.ErrNotFound) {
		fail(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.internal(c, err, "failed to load import session")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"state":    sess.State,
		"progress": sess.Progress,
		"total":    len(sess.Preview.Valid),
		"summary":  sess.Preview.Summary(),
		"result":   sess.Result,
	})
}
