package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alumni/internal/alumni"
	"alumni/internal/bulkimport"
)

func (h *Handler) ListStudents(c *gin.Context) {
	list, err := h.alumni.List(c.Request.Context(), alumni.Filter{
		Batch:      c.Query("batch"),
		Department: c.Query("department"),
		Query:      c.Query("q"),
	})
	if err != nil {
		h.internal(c, err, "failed to list students")
		return
	}
	if list == nil {
		list = []alumni.Alumnus{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "students": list})
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var rec alumni.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if problems := bulkimport.Problems(rec); problems != "" {
		fail(c, http.StatusBadRequest, problems)
		return
	}
	a, err := h.alumni.Create(c.Request.Context(), rec)
	switch {
	case errors.Is(err, alumni.ErrAlreadyExists):
		fail(c, http.StatusConflict, "Alumni ID already exists")
		return
	case err != nil:
		h.internal(c, err, "failed to insert student")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Inserted successfully", "id": a.ID})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	err := h.alumni.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, alumni.ErrNotFound):
		fail(c, http.StatusNotFound, "Student not found")
		return
	case err != nil:
		h.internal(c, err, "failed to delete student")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Student deleted"})
}

func (h *Handler) Statistics(c *gin.Context) {
	st, err := h.alumni.Statistics(c.Request.Context())
	if err != nil {
		h.internal(c, err, "failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "statistics": st})
}

// ExportStudents streams the filtered directory as CSV (default) or XLSX.
func (h *Handler) ExportStudents(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		fail(c, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	list, err := h.alumni.List(c.Request.Context(), alumni.Filter{
		Batch:      c.Query("batch"),
		Department: c.Query("department"),
		Query:      c.Query("q"),
	})
	if err != nil {
		h.internal(c, err, "failed to list students")
		return
	}

	name := "alumni_data_" + time.Now().Format(time.DateOnly) + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = alumni.WriteXLSX(c.Writer, list)
	} else {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		err = alumni.WriteCSV(c.Writer, list)
	}
	if err != nil {
		h.log.WithError(err).Error("export failed")
	}
}
