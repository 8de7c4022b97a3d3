package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
	"github.com/yourusername/quiz-api/internal/middleware"
)

var statisticsHeaders = []string{"Quiz ID", "Quiz", "Total marks", "Score", "Date", "Passed"}

// ExportStatistics выгружает все попытки пользователя в CSV или Excel
// GET /api/quiz/statistics/export?format=csv|xlsx
func (h *LeaderboardHandler) ExportStatistics(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"format": "Supported formats: csv, xlsx."})
		return
	}

	rows, err := h.leaderboardService.ExportStatistics(c.Request.Context(), middleware.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}

	filename := fmt.Sprintf("statistics_%s_%s", c.GetString(middleware.ContextUsername), time.Now().Format("2006-01-02"))
	if format == "xlsx" {
		exportXLSX(c, rows, filename)
		return
	}
	exportCSV(c, rows, filename)
}

func passedLabel(passed bool) string {
	if passed {
		return "Yes"
	}
	return "No"
}

// exportCSV пишет статистику в CSV с BOM, чтобы Excel правильно показал UTF-8
func exportCSV(c *gin.Context, rows []dto.StatisticsRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(statisticsHeaders)
	for _, r := range rows {
		writer.Write([]string{
			strconv.FormatUint(uint64(r.QuizID), 10),
			sanitizeForExcel(r.QuizTitle),
			strconv.Itoa(r.QuizTotalMarks),
			strconv.Itoa(r.Score),
			r.Date.UTC().Format(time.RFC3339),
			passedLabel(r.HasPassed),
		})
	}
}

// exportXLSX пишет статистику в Excel через StreamWriter
func exportXLSX(c *gin.Context, rows []dto.StatisticsRow, filename string) {
	log := logger.Get().Named("LeaderboardHandler")

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Statistics"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Error("failed to create stream writer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, 0, len(statisticsHeaders))
	for _, h := range statisticsHeaders {
		headers = append(headers, h)
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Error("failed to write headers", zap.Error(err))
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{r.QuizID, sanitizeForExcel(r.QuizTitle), r.QuizTotalMarks, r.Score, r.Date.UTC().Format(time.RFC3339), passedLabel(r.HasPassed)}
		if err := sw.SetRow(cell, row); err != nil {
			log.Error("failed to write row", zap.Int("row", i+2), zap.Error(err))
		}
	}

	if err := sw.Flush(); err != nil {
		log.Error("failed to flush stream writer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error("failed to write xlsx response", zap.Error(err))
	}
}

// sanitizeForExcel экранирует ячейки, которые Excel принял бы за формулу
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// = + - @ \t \r начинают формулу в Excel/LibreOffice
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
