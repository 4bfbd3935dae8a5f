/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-17 11:20:35
 * @LastEditTime: 2025-12-05 09:24:10
 * @LastEditors: 苏屿
 */
package main

import (
	"log"

	"github.com/studylink-hub/studylink-app/cmd/server"
)

// @title           StudyLink API
// @version         1.0
// @description     StudyLink 学习社区接口文档
// @contact.name    苏屿
// @host            localhost:8091
// @BasePath        /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 在请求头中添加 Bearer Token，格式为: Bearer {token}
func main() {
	app, cleanup, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer cleanup()
	defer app.Stop()

	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
