/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-02 11:20:44
 * @LastEditTime: 2025-11-08 21:14:02
 * @LastEditors: 苏屿
 */
package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrForbidden 表示无权访问，可以由 Handler 转换为 403
	ErrForbidden = errors.New("操作禁止")

	// ErrConflict 表示资源冲突，可以由 Handler 转换为 409
	ErrConflict = errors.New("资源冲突")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrUnauthorized 表示未授权，可以由 Handler 转换为 401
	ErrUnauthorized = errors.New("未经授权的访问")

	// ErrInvalidToken 表示无效的令牌，可以由 Handler 转换为 401
	ErrInvalidToken = errors.New("无效令牌")

	// ErrInvalidPublicID 表示无效的公共ID，可以由 Handler 转换为 400
	ErrInvalidPublicID = errors.New("无效的公共ID")

	// ErrCommentNotFound 表示评论不存在，可以由 Handler 转换为 404
	ErrCommentNotFound = errors.New("评论不存在")

	// ErrCommentDeleted 表示评论已删除，不允许编辑
	ErrCommentDeleted = errors.New("评论已删除，无法操作")

	// ErrCommentTargetMismatch 表示回复的评论与当前帖子不匹配
	ErrCommentTargetMismatch = errors.New("回复的评论与当前帖子不匹配")

	// ErrCommentRateLimited 表示评论发布过于频繁
	ErrCommentRateLimited = errors.New("您的评论太频繁了，请稍后再试")

	// ErrNotCommentAuthor 表示当前用户不是评论作者，无权编辑或删除
	ErrNotCommentAuthor = errors.New("只有评论作者才能执行此操作")

	// ErrInvalidCursor 表示分页游标无法解析，客户端应从第一页重新加载
	ErrInvalidCursor = errors.New("无效的分页游标")

	// ErrEmailTaken 表示注册邮箱已被占用，可以由 Handler 转换为 409
	ErrEmailTaken = errors.New("该邮箱已被注册")

	// ErrWrongCredentials 表示登录凭证错误
	ErrWrongCredentials = errors.New("邮箱或密码错误")
)
