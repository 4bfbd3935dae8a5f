/*
 * @Description: 门户前端使用的评论接口客户端
 * @Author: 苏屿
 * @Date: 2025-09-12 09:35:40
 * @LastEditTime: 2025-12-01 21:26:08
 * @LastEditors: 苏屿
 */
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/studylink-hub/studylink-app/pkg/handler/comment/dto"
	"github.com/studylink-hub/studylink-app/pkg/service/commenttree"
)

// APIError 是服务端返回的结构化错误。
// 调用方可以据此区分客户端错误（4xx，不应重试）与服务端/网络
// 故障（应进入排队重试）。
type APIError struct {
	StatusCode int    // HTTP 状态码
	Code       int    // 响应包络中的业务码
	Message    string // 服务端给出的消息
}

func (e *APIError) Error() string {
	return fmt.Sprintf("接口错误 (HTTP %d, code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Retryable 报告该错误是否值得重试：5xx 与 429 可以重试，其余 4xx 不行。
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// TokenProvider 为客户端按需提供访问令牌。
// 返回空字符串表示当前是匿名访客，请求不携带 Authorization 头。
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// PageOptions 是 FetchPage 的查询参数。
type PageOptions struct {
	PageSize int
	Cursor   string // 上一页响应中的 next_cursor，原样携带
	Sort     string // newest | oldest | popular
}

// PageResult 是一页评论：扁平记录由评论树引擎组装。
type PageResult struct {
	Comments          []commenttree.Comment
	Total             int64
	TotalWithChildren int64
	NextCursor        string
}

// CreateCommentRequest 是发表评论的请求。
type CreateCommentRequest struct {
	ParentID string // 为空表示顶级评论
	Nickname string
	Email    string
	Content  string
}

// CommentClient 通过 HTTP 访问评论接口。所有方法都接受 context，
// 超时与取消由调用方控制；客户端自身只设置兜底超时。
type CommentClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

// NewCommentClient 创建评论客户端。tokens 可以为 nil（纯匿名访问）。
func NewCommentClient(baseURL string, tokens TokenProvider) *CommentClient {
	return &CommentClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
	}
}

// envelope 是服务端的统一响应包络。
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do 发送请求并把响应包络解码到 out。
func (c *CommentClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("获取访问令牌失败: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "响应包络解析失败"}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("响应数据解析失败: %w", err)
		}
	}
	return nil
}

// FetchPage 拉取一页评论。拉取是幂等的：同一游标可以安全地重放。
func (c *CommentClient) FetchPage(ctx context.Context, topicID, postID string, opts PageOptions) (*PageResult, error) {
	query := url.Values{}
	if opts.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	path := fmt.Sprintf("/api/public/topics/%s/posts/%s/comments", url.PathEscape(topicID), url.PathEscape(postID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var listResp dto.ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &listResp); err != nil {
		return nil, err
	}

	comments := make([]commenttree.Comment, 0, len(listResp.List))
	for _, item := range listResp.List {
		comments = append(comments, toTreeComment(item))
	}
	return &PageResult{
		Comments:          comments,
		Total:             listResp.Total,
		TotalWithChildren: listResp.TotalWithChildren,
		NextCursor:        listResp.NextCursor,
	}, nil
}

// Create 发表评论，返回带服务端ID的评论记录。
func (c *CommentClient) Create(ctx context.Context, topicID, postID string, req CreateCommentRequest) (*commenttree.Comment, error) {
	body := map[string]interface{}{
		"nickname": req.Nickname,
		"content":  req.Content,
	}
	if req.ParentID != "" {
		body["parent_id"] = req.ParentID
	}
	if req.Email != "" {
		body["email"] = req.Email
	}

	path := fmt.Sprintf("/api/public/topics/%s/posts/%s/comments", url.PathEscape(topicID), url.PathEscape(postID))
	var resp dto.Response
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	created := toTreeComment(&resp)
	return &created, nil
}

// Edit 编辑自己的评论。
func (c *CommentClient) Edit(ctx context.Context, commentID, content string) (*commenttree.Comment, error) {
	path := "/api/comments/" + url.PathEscape(commentID)
	var resp dto.Response
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"content": content}, &resp); err != nil {
		return nil, err
	}
	updated := toTreeComment(&resp)
	return &updated, nil
}

// Delete 删除自己的评论（软删除）。
func (c *CommentClient) Delete(ctx context.Context, commentID string) error {
	path := "/api/comments/" + url.PathEscape(commentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Like 为评论点赞，返回最新点赞数。
func (c *CommentClient) Like(ctx context.Context, commentID string) (int, error) {
	path := "/api/public/comments/" + url.PathEscape(commentID) + "/like"
	var resp dto.LikeResponse
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.LikeCount, nil
}

// toTreeComment 把接口层的评论记录转换为树引擎的扁平记录。
func toTreeComment(r *dto.Response) commenttree.Comment {
	c := commenttree.Comment{
		ID:          r.ID,
		AuthorName:  r.Nickname,
		ContentHTML: r.ContentHTML,
		CreatedAt:   r.CreatedAt,
		EditedAt:    r.EditedAt,
		IsDeleted:   r.IsDeleted,
		LikeCount:   r.LikeCount,
	}
	if r.ParentID != nil {
		c.ParentID = *r.ParentID
	}
	if r.UserID != nil {
		c.AuthorID = *r.UserID
	}
	if r.AvatarURL != nil {
		c.AuthorAvatar = *r.AvatarURL
	}
	return c
}
