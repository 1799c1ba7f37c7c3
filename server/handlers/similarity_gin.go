package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"prepserver/server/services"
)

// SimilarityHandler обработчик диагностики метрик схожести
type SimilarityHandler struct {
	similarityService *services.SimilarityService
}

// NewSimilarityHandler создает новый обработчик схожести
func NewSimilarityHandler(similarityService *services.SimilarityService) *SimilarityHandler {
	return &SimilarityHandler{similarityService: similarityService}
}

// compareRequest запрос сравнения двух строк
type compareRequest struct {
	String1 string `json:"string1"`
	String2 string `json:"string2"`
}

// HandleCompareGin сравнивает две строки всеми метриками семейства
// @Summary Сравнить две строки
// @Description Возвращает оценки 0-100 по всем метрикам схожести и стеммированные формы строк
// @Tags similarity
// @Accept json
// @Produce json
// @Param request body compareRequest true "Пара строк"
// @Success 200 {object} map[string]interface{} "Оценки схожести"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/similarity/compare [post]
func (h *SimilarityHandler) HandleCompareGin(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.similarityService.Compare(req.String1, req.String2)
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, result)
}

// extractRequest запрос поиска лучших совпадений
type extractRequest struct {
	Query   string   `json:"query"`
	Choices []string `json:"choices"`
	Limit   int      `json:"limit,omitempty"`
}

// HandleExtractGin возвращает лучшие совпадения запроса среди кандидатов
// @Summary Найти лучшие совпадения
// @Description Оценивает запрос против каждого кандидата и возвращает отсортированный по убыванию оценки список
// @Tags similarity
// @Accept json
// @Produce json
// @Param request body extractRequest true "Запрос и кандидаты"
// @Success 200 {object} map[string]interface{} "Совпадения"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Router /api/similarity/extract [post]
func (h *SimilarityHandler) HandleExtractGin(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	matches, err := h.similarityService.ExtractTop(req.Query, req.Choices, req.Limit)
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"query":   req.Query,
		"matches": matches,
		"count":   len(matches),
	})
}
