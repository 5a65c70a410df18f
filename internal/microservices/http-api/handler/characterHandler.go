package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"animeshow/internal/microservices/http-api/dto"
	"animeshow/internal/microservices/http-api/service"
	"animeshow/internal/shared"

	"github.com/gin-gonic/gin"
)

const (
	msgEmptyName   = "角色名字不能为空"
	msgNotFound    = "未找到角色: "
	msgServerError = "服务器错误"
	msgSaveFailed  = "保存失败"
)

type CharacterHandler struct {
	search       service.CharacterSearchService
	save         service.CharacterSaveService
	timeout      time.Duration
	exposeDetail bool
	logger       *slog.Logger
}

// NewCharacterHandler wires the search and save services. When
// exposeDetail is false, server-class failures are logged but their
// detail is left out of the response message.
func NewCharacterHandler(search service.CharacterSearchService, save service.CharacterSaveService, timeout time.Duration, exposeDetail bool) *CharacterHandler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CharacterHandler{
		search:       search,
		save:         save,
		timeout:      timeout,
		exposeDetail: exposeDetail,
		logger:       slog.Default(),
	}
}

func (h *CharacterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/character/search", h.Search)
	rg.POST("/character/save", h.Save)
	rg.GET("/getallcharacters", h.ListAll)
}

// Search handles GET /api/character/search?name=
func (h *CharacterHandler) Search(c *gin.Context) {
	name := c.Query("name")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	characters, err := h.search.Search(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.Failure(http.StatusBadRequest, msgEmptyName))
		case errors.Is(err, shared.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Failure(http.StatusNotFound, msgNotFound+name))
		default:
			h.logger.Error("character_search_failed", "name", name, "error", err, "request_id", c.GetString("request_id"))
			c.JSON(http.StatusInternalServerError, dto.Failure(http.StatusInternalServerError, h.serverMessage(msgServerError, err)))
		}
		return
	}

	c.JSON(http.StatusOK, dto.Success("success", dto.CharacterSearchData{
		Characters: characters,
		Total:      len(characters),
	}))
}

// Save handles POST /api/character/save
func (h *CharacterHandler) Save(c *gin.Context) {
	var in dto.SaveCharacterDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, dto.Failure(http.StatusBadRequest, msgSaveFailed+": "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	id, err := h.save.Save(ctx, in)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, dto.Failure(http.StatusBadRequest, msgSaveFailed+": "+err.Error()))
			return
		}
		h.logger.Error("character_save_failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, dto.Failure(http.StatusInternalServerError, h.serverMessage(msgSaveFailed, err)))
		return
	}

	c.JSON(http.StatusOK, dto.Success("saved", dto.SaveResultDTO{ID: id}))
}

// ListAll handles GET /api/getallcharacters
func (h *CharacterHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list, err := h.save.ListAll(ctx)
	if err != nil {
		h.logger.Error("character_list_failed", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, dto.Failure(http.StatusInternalServerError, h.serverMessage(msgServerError, err)))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CharacterHandler) serverMessage(prefix string, err error) string {
	if !h.exposeDetail {
		return prefix
	}
	return prefix + ": " + err.Error()
}
