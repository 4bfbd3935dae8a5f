/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-02 11:31:05
 * @LastEditTime: 2025-09-02 11:31:22
 * @LastEditors: 苏屿
 */
package model

import "time"

// Setting 是一条持久化的站点配置项，键在 constant 包中集中定义。
type Setting struct {
	ID        uint      `json:"id"`
	ConfigKey string    `json:"key"`
	Value     string    `json:"value"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
