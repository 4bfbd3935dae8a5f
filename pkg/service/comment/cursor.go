/*
 * @Description: 评论分页的不透明游标
 * @Author: 苏屿
 * @Date: 2025-09-09 15:41:26
 * @LastEditTime: 2025-11-29 00:17:45
 * @LastEditors: 苏屿
 */
package comment

import (
	"encoding/base64"
	"encoding/json"

	"github.com/studylink-hub/studylink-app/pkg/constant"
)

// pageCursor 是分页游标的内部结构。对客户端而言游标是不透明的
// base64 令牌，只能原样携带；字段布局可以随时调整而不破坏客户端。
// 游标锚定上一页最后一个顶级评论，翻页按锚点之后取，
// 因此中途有新评论插入也不会导致跳行或重复。
type pageCursor struct {
	// Sort 签发游标时的排序键；与请求排序不一致时游标作废
	Sort string `json:"s"`
	// LastID 锚点评论的数据库ID
	LastID uint `json:"i"`
	// LastUnix 锚点评论创建时间（UnixNano），锚点被删除时用于按序定位
	LastUnix int64 `json:"t"`
	// LastLikes 锚点评论的点赞数，仅 popular 排序使用
	LastLikes int `json:"l,omitempty"`
}

// encodeCursor 将游标编码为 URL 安全的 base64 令牌。
func encodeCursor(c pageCursor) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeCursor 解析客户端携带的游标令牌。
// 任何无法解析的令牌都返回 ErrInvalidCursor，客户端应从第一页重新加载。
func decodeCursor(token string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return pageCursor{}, constant.ErrInvalidCursor
	}
	var c pageCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return pageCursor{}, constant.ErrInvalidCursor
	}
	if c.LastID == 0 {
		return pageCursor{}, constant.ErrInvalidCursor
	}
	return c, nil
}
