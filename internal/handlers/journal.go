package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesmnif/echoes/internal/services"
)

type JournalHandler struct {
	journalService services.JournalService
}

func NewJournalHandler(journalService services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (jh *JournalHandler) SaveJournal(c *gin.Context) {
	var req services.SaveJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	savedDate, err := jh.journalService.Save(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "savedDate": savedDate})
}

func (jh *JournalHandler) ListEntries(c *gin.Context) {
	entries, err := jh.journalService.ListEntries(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
