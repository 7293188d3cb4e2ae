package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sshcollectorpro/cliparser/internal/codec"
	"github.com/sshcollectorpro/cliparser/internal/database"
	"github.com/sshcollectorpro/cliparser/internal/service"
	"github.com/sshcollectorpro/cliparser/pkg/logger"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// statusOf 错误码对应的 HTTP 状态
func statusOf(code string) int {
	switch code {
	case service.CodeInvalidParams:
		return http.StatusBadRequest
	case service.CodeRepositoryNotFound, service.CodeDefinitionNotFound:
		return http.StatusNotFound
	case service.CodeAmbiguousPattern:
		return http.StatusConflict
	case service.CodeAdaptationFailed:
		return http.StatusUnprocessableEntity
	case service.CodeCollectFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	code := service.ErrorCode(err)
	c.JSON(statusOf(code), ErrorResponse{Code: code, Message: err.Error()})
}

// ParseHandler 解析接口处理器
type ParseHandler struct {
	parseService *service.ParseService
}

// NewParseHandler 创建解析处理器
func NewParseHandler(parseService *service.ParseService) *ParseHandler {
	return &ParseHandler{parseService: parseService}
}

// Health 健康检查
// @Summary 健康检查
// @Tags parse
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (h *ParseHandler) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "disabled"
	if database.GetDB() != nil {
		dbStatus = "ok"
		if err := database.Health(); err != nil {
			status = "degraded"
			dbStatus = err.Error()
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           status,
		"database":         dbStatus,
		"default_platform": h.parseService.DefaultPlatform(),
		"cache":            h.parseService.CacheStats(),
	})
}

// Parse 解析单条命令回显
// @Summary 解析命令回显
// @Tags parse
// @Accept json
// @Produce json,application/cbor
// @Param request body service.ParseRequest true "解析请求"
// @Success 200 {object} service.ParseResponse
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 404 {object} ErrorResponse "平台或定义不存在"
// @Failure 409 {object} ErrorResponse "多个定义同等匹配"
// @Failure 422 {object} ErrorResponse "定义适配失败"
// @Router /api/v1/parse [post]
func (h *ParseHandler) Parse(c *gin.Context) {
	var request service.ParseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Warnf("Invalid parse request: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    service.CodeInvalidParams,
			Message: "请求参数无效: " + err.Error(),
		})
		return
	}

	resp, err := h.parseService.Parse(c.Request.Context(), &request)
	if err != nil {
		abortWithError(c, err)
		return
	}

	// CBOR 直接返回编码后的结果
	if resp.Format == codec.FormatCBOR {
		c.Header("X-Parser-Routine", resp.Routine)
		c.Header("X-Parser-Platform", resp.Platform)
		c.Data(http.StatusOK, codec.ContentType(resp.Format), resp.Payload)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseBatch 批量解析
// @Summary 批量解析命令回显
// @Tags parse
// @Accept json
// @Produce json
// @Param request body service.BatchRequest true "批量解析请求"
// @Success 200 {object} service.BatchResponse
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Router /api/v1/parse/batch [post]
func (h *ParseHandler) ParseBatch(c *gin.Context) {
	var request service.BatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    service.CodeInvalidParams,
			Message: "请求参数无效: " + err.Error(),
		})
		return
	}
	resp, err := h.parseService.ParseBatch(c.Request.Context(), &request)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ParseDevice 在线采集并解析
// @Summary 通过 SSH 采集命令回显并解析
// @Tags parse
// @Accept json
// @Produce json
// @Param request body service.DeviceRequest true "设备请求"
// @Success 200 {object} service.BatchResponse
// @Failure 400 {object} ErrorResponse "请求参数错误"
// @Failure 500 {object} ErrorResponse "采集失败"
// @Router /api/v1/parse/device [post]
func (h *ParseHandler) ParseDevice(c *gin.Context) {
	var request service.DeviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    service.CodeInvalidParams,
			Message: "请求参数无效: " + err.Error(),
		})
		return
	}
	resp, err := h.parseService.ParseDevice(c.Request.Context(), &request)
	if err != nil {
		logger.Errorf("Parse device %s failed: %v", request.DeviceIP, err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListPlatforms 已知平台及例程
// @Summary 平台与例程列表
// @Tags platform
// @Produce json
// @Success 200 {array} service.PlatformInfo
// @Router /api/v1/platforms [get]
func (h *ParseHandler) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, h.parseService.Platforms())
}

// ListDefinitions 平台下的源码定义文件
// @Summary 源码定义列表
// @Tags platform
// @Produce json
// @Param platform path string true "平台"
// @Success 200 {array} repository.Artifact
// @Failure 404 {object} ErrorResponse "平台不存在"
// @Router /api/v1/platforms/{platform}/definitions [get]
func (h *ParseHandler) ListDefinitions(c *gin.Context) {
	artifacts, err := h.parseService.Definitions(c.Param("platform"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifacts)
}

// CacheStats 例程缓存统计
// @Summary 例程缓存统计
// @Tags cache
// @Produce json
// @Router /api/v1/cache [get]
func (h *ParseHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats": h.parseService.CacheStats(),
		"keys":  h.parseService.CacheKeys(),
	})
}

// ClearCache 清空例程缓存
// @Summary 清空例程缓存
// @Tags cache
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /api/v1/cache [delete]
func (h *ParseHandler) ClearCache(c *gin.Context) {
	n := h.parseService.ClearCache()
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    "SUCCESS",
		Message: "缓存已清空",
		Data:    gin.H{"cleared": n},
	})
}

// History 最近的解析历史
// @Summary 解析历史
// @Tags history
// @Produce json
// @Param platform query string false "平台"
// @Param limit query int false "条数"
// @Router /api/v1/history [get]
func (h *ParseHandler) History(c *gin.Context) {
	limit := 0
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    service.CodeInvalidParams,
				Message: "limit 必须为非负整数",
			})
			return
		}
		limit = n
	}
	records, err := h.parseService.History(c.Query("platform"), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    service.CodeHistoryUnavailable,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, records)
}
