/*
 * @Description:
 * @Author: 苏屿
 * @Date: 2025-09-02 11:26:31
 * @LastEditTime: 2025-11-30 20:05:12
 * @LastEditors: 苏屿
 */
package constant

// SettingKey 为所有在应用中使用的配置键定义了类型安全的常量。
type SettingKey string

// String 方便地将 SettingKey 转换为 string 类型。
func (k SettingKey) String() string {
	return string(k)
}

const (
	// --- 站点基础配置 ---
	KeyAppName         SettingKey = "APP_NAME"
	KeySiteURL         SettingKey = "SITE_URL"
	KeySiteDescription SettingKey = "SITE_DESCRIPTION"
	KeySiteOwnerEmail  SettingKey = "SITE_OWNER_EMAIL"

	// --- 评论配置 ---
	KeyCommentPageSize       SettingKey = "COMMENT_PAGE_SIZE"        // 顶级评论每页数量，默认 20
	KeyCommentMaxDepth       SettingKey = "COMMENT_MAX_DEPTH"        // 评论树深度上限，默认 50（防御畸形父链）
	KeyCommentLimitPerMinute SettingKey = "COMMENT_LIMIT_PER_MINUTE" // 单IP每分钟评论上限
	KeyCommentForbiddenWords SettingKey = "COMMENT_FORBIDDEN_WORDS"  // 违禁词列表，逗号分隔，命中转待审核
	KeyCommentNotifyAdmin    SettingKey = "COMMENT_NOTIFY_ADMIN"     // 顶级评论是否通知管理员
	KeyCommentNotifyReply    SettingKey = "COMMENT_NOTIFY_REPLY"     // 回复是否通知被回复者
	KeyCommentDefaultSort    SettingKey = "COMMENT_DEFAULT_SORT"     // 默认排序：newest|oldest|popular
	KeyCommentEmojiCDN       SettingKey = "COMMENT_EMOJI_CDN"        // 表情包JSON的CDN地址，为空则不启用表情

	// --- 系统内部配置 ---
	KeyIDSeed SettingKey = "ID_SEED" // 公共ID编码器的种子，首次启动生成后不再变化

	// --- 待提交写入队列配置 ---
	KeyPendingWriteTTL      SettingKey = "PENDING_WRITE_TTL"      // 本地排队写入的保留时长（秒）
	KeyPendingFlushInterval SettingKey = "PENDING_FLUSH_INTERVAL" // 队列重放任务的间隔（秒）
)

// 评论排序键，作为查询参数在客户端与服务端之间传递。
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// DeletedCommentPlaceholder 是软删除评论的固定占位内容。
// 原始内容一律不再渲染，但节点保留，因为其子回复可能仍然引用它。
const DeletedCommentPlaceholder = "该评论已被删除"
