package configdef

import (
	"github.com/studylink-hub/studylink-app/pkg/constant"
)

// Definition 定义了单个配置项的所有属性。
type Definition struct {
	Key      constant.SettingKey
	Value    string
	Comment  string
	IsPublic bool
}

// UserGroupDefinition 定义了单个用户组的所有属性。
type UserGroupDefinition struct {
	ID          uint
	Name        string
	Description string
}

// AllSettings 是系统中所有配置项的"单一事实来源"。
// 首次启动时按这里的默认值写入数据库，之后以数据库中的值为准。
var AllSettings = []Definition{
	// --- 站点基础配置 ---
	{Key: constant.KeyAppName, Value: "StudyLink", Comment: "应用名称", IsPublic: true},
	{Key: constant.KeySiteURL, Value: "https://www.studylink.example.com", Comment: "应用URL", IsPublic: true},
	{Key: constant.KeySiteDescription, Value: "面向在校学生的学习社区：版块、帖子与讨论。", Comment: "站点描述", IsPublic: true},
	{Key: constant.KeySiteOwnerEmail, Value: "", Comment: "站长邮箱，顶级评论通知的接收者", IsPublic: false},

	// --- 评论配置 ---
	{Key: constant.KeyCommentPageSize, Value: "20", Comment: "帖子页每页顶级评论数量", IsPublic: true},
	{Key: constant.KeyCommentMaxDepth, Value: "50", Comment: "评论树深度上限，超出的评论降级为顶级显示", IsPublic: false},
	{Key: constant.KeyCommentLimitPerMinute, Value: "5", Comment: "单IP每分钟评论上限，0为不限制", IsPublic: false},
	{Key: constant.KeyCommentForbiddenWords, Value: "", Comment: "违禁词列表，逗号分隔，命中后评论转待审核", IsPublic: false},
	{Key: constant.KeyCommentNotifyAdmin, Value: "true", Comment: "顶级评论是否通知管理员", IsPublic: false},
	{Key: constant.KeyCommentNotifyReply, Value: "true", Comment: "回复是否通知被回复者", IsPublic: false},
	{Key: constant.KeyCommentDefaultSort, Value: "newest", Comment: "评论默认排序：newest/oldest/popular", IsPublic: true},
	{Key: constant.KeyCommentEmojiCDN, Value: "", Comment: "表情包JSON的CDN地址，为空则不启用表情解析", IsPublic: true},

	// --- 待提交写入队列配置 ---
	{Key: constant.KeyPendingWriteTTL, Value: "86400", Comment: "离线排队写入的保留时长（秒）", IsPublic: false},
	{Key: constant.KeyPendingFlushInterval, Value: "60", Comment: "排队写入重放任务的间隔（秒）", IsPublic: false},
}

// AllUserGroups 定义了内置用户组。
var AllUserGroups = []UserGroupDefinition{
	{ID: 1, Name: "管理员", Description: "站点管理员，可管理全部内容"},
	{ID: 2, Name: "学生", Description: "普通注册学生用户"},
}
