package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prepserver/server/services"
)

// SessionHandler обработчик сессий стандартизации
type SessionHandler struct {
	sessionService *services.SessionService
	maxUploadBytes int64
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *services.SessionService, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleCreateSessionGin создает сессию стандартизации
// @Summary Создать сессию стандартизации
// @Description Загружает таблицу (CSV или XLSX), выбирает столбец и вид, строит кластеры почти-дубликатов
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param table formData file true "Таблица (csv/xlsx)"
// @Param column formData string true "Имя столбца"
// @Param kind formData string true "Вид столбца: clinic_name или isolated_organisms"
// @Param mapping formData file false "Файл соответствий (JSON-объект)"
// @Success 201 {object} services.SessionInfo "Созданная сессия"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/sessions [post]
func (h *SessionHandler) HandleCreateSessionGin(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	column := c.PostForm("column")
	if column == "" {
		SendJSONError(c, http.StatusBadRequest, "column is required")
		return
	}
	kind := c.PostForm("kind")
	if kind == "" {
		SendJSONError(c, http.StatusBadRequest, "kind is required")
		return
	}

	filename, tableData, err := readFormFile(c, "table")
	if err != nil {
		SendJSONError(c, http.StatusBadRequest, "table file is required")
		return
	}

	// Файл соответствий необязателен
	var mappingData []byte
	if _, data, err := readFormFile(c, "mapping"); err == nil {
		mappingData = data
	}

	info, err := h.sessionService.CreateSession(filename, tableData, column, kind, mappingData)
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusCreated, info)
}

// HandleGetSessionGin возвращает сводку сессии
// @Summary Получить сессию
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} services.SessionInfo "Сводка сессии"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) HandleGetSessionGin(c *gin.Context) {
	info, err := h.sessionService.Session(c.Param("id"))
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, info)
}

// HandleClustersGin возвращает нерешенные кластеры сессии
// @Summary Получить кластеры почти-дубликатов
// @Description Возвращает кластеры, требующие решения оператора; для микроорганизмов поддерживается фильтр по букве партии
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Param letter query string false "Буква партии (только isolated_organisms)"
// @Success 200 {object} services.ClustersResponse "Нерешенные кластеры"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/sessions/{id}/clusters [get]
func (h *SessionHandler) HandleClustersGin(c *gin.Context) {
	response, err := h.sessionService.Clusters(c.Param("id"), c.Query("letter"))
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, response)
}

// decisionsRequest пакет решений оператора
type decisionsRequest struct {
	Decisions []services.KeyDecision `json:"decisions"`
}

// HandleDecisionsGin применяет пакет решений оператора
// @Summary Применить решения оператора
// @Description Каждое решение применяется независимо: некорректное (например, пустая замена) отклоняется для своего ключа, остальные фиксируются
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body decisionsRequest true "Пакет решений"
// @Success 200 {object} map[string]interface{} "Результаты по ключам"
// @Failure 400 {object} ErrorResponse "Неверный запрос"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/sessions/{id}/decisions [post]
func (h *SessionHandler) HandleDecisionsGin(c *gin.Context) {
	var req decisionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendJSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Decisions) == 0 {
		SendJSONError(c, http.StatusBadRequest, "decisions are required")
		return
	}

	outcomes, pending, err := h.sessionService.ApplyDecisions(c.Param("id"), req.Decisions)
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"outcomes": outcomes,
		"pending":  pending,
	})
}

// HandleMappingGin возвращает текущее хранилище соответствий сессии
// @Summary Получить соответствия сессии
// @Tags sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} map[string]string "Соответствия ключ — замена"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/sessions/{id}/mapping [get]
func (h *SessionHandler) HandleMappingGin(c *gin.Context) {
	mapping, err := h.sessionService.Mapping(c.Param("id"))
	if err != nil {
		SendAppError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, mapping)
}

// HandleExportGin выгружает стандартизированную таблицу
// @Summary Экспортировать стандартизированную таблицу
// @Description Применяет подтвержденные соответствия ко всему столбцу; нерешенные ключи проходят без изменений
// @Tags sessions
// @Produce text/csv
// @Param id path string true "ID сессии"
// @Param format query string false "Формат: csv (по умолчанию) или xlsx"
// @Success 200 {file} file "Стандартизированная таблица"
// @Failure 400 {object} ErrorResponse "Неверный формат"
// @Failure 404 {object} ErrorResponse "Сессия не найдена"
// @Router /api/sessions/{id}/export [get]
func (h *SessionHandler) HandleExportGin(c *gin.Context) {
	result, err := h.sessionService.Export(c.Param("id"), c.Query("format"))
	if err != nil {
		SendAppError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// readFormFile читает файл из multipart-формы целиком
func readFormFile(c *gin.Context, field string) (string, []byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}

	return fileHeader.Filename, data, nil
}
