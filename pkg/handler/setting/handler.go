/*
 * @Description: 站点配置接口
 * @Author: 苏屿
 * @Date: 2025-09-12 14:40:05
 * @LastEditTime: 2025-11-22 16:33:57
 * @LastEditors: 苏屿
 */
package setting_handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studylink-hub/studylink-app/pkg/response"
	"github.com/studylink-hub/studylink-app/pkg/service/setting"
)

// SettingHandler 封装了站点配置相关的控制器方法
type SettingHandler struct {
	settingSvc setting.SettingService
}

// NewSettingHandler 是 SettingHandler 的构造函数
func NewSettingHandler(settingSvc setting.SettingService) *SettingHandler {
	return &SettingHandler{settingSvc: settingSvc}
}

// GetSiteConfig
// @Summary      获取公开的站点配置
// @Description  只返回标记为公开的配置项，供前端渲染评论区（页大小、排序默认值、表情CDN等）
// @Tags         设置
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /public/site-config [get]
func (h *SettingHandler) GetSiteConfig(c *gin.Context) {
	response.Success(c, h.settingSvc.GetSiteConfig(), "获取成功")
}

// UpdateSettings
// @Summary      批量更新站点配置
// @Tags         设置管理
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Success      200 {object} response.Response "成功响应"
// @Router       /settings [put]
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数错误: "+err.Error())
		return
	}
	if len(req) == 0 {
		response.Fail(c, http.StatusBadRequest, "没有需要更新的配置项")
		return
	}

	if err := h.settingSvc.UpdateSettings(c.Request.Context(), req); err != nil {
		response.Fail(c, http.StatusInternalServerError, "更新配置失败: "+err.Error())
		return
	}
	response.Success(c, nil, "配置更新成功")
}
