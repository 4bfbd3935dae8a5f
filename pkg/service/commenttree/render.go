/*
 * @Description: 评论树的增量渲染：渲染台账、分页合并与乐观插入
 * @Author: 苏屿
 * @Date: 2025-09-08 16:02:11
 * @LastEditTime: 2025-12-03 00:41:29
 * @LastEditors: 苏屿
 */
package commenttree

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studylink-hub/studylink-app/pkg/constant"
)

// LocalIDPrefix 是乐观插入节点的临时ID前缀。
// 服务端公共ID由 sqids 生成，字符集里不含 '-'，因此带此前缀的ID不会与真实ID冲突。
const LocalIDPrefix = "local-"

// Viewer 是当前查看者的身份。零值表示匿名访客。
type Viewer struct {
	ID string
}

// Actions 描述了某条评论对当前查看者可见的操作。
type Actions struct {
	CanReply  bool `json:"can_reply"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
	CanReport bool `json:"can_report"`
}

// RenderedNode 是渲染就绪的节点描述符（视图模型）。
// 引擎只产出这样的纯数据；把它变成实际界面的展示层是可替换的，
// 这样树与合并逻辑不依赖任何界面环境即可测试。
type RenderedNode struct {
	ID           string          `json:"id"`
	ParentID     string          `json:"parent_id,omitempty"`
	Depth        int             `json:"depth"`
	AuthorID     string          `json:"author_id"`
	AuthorName   string          `json:"author_name"`
	AuthorAvatar string          `json:"author_avatar,omitempty"`
	ContentHTML  string          `json:"content_html"`
	TimeLabel    string          `json:"time_label"`
	Edited       bool            `json:"edited"`
	IsDeleted    bool            `json:"is_deleted"`
	LikeCount    int             `json:"like_count"`
	IsLocal      bool            `json:"is_local"` // 乐观占位节点，尚未得到服务端确认
	Actions      Actions         `json:"actions"`
	Children     []*RenderedNode `json:"children"`
}

// Renderer 把评论树渲染进一个有序容器，并维护"已渲染ID"台账，
// 保证任意次数的重复合并都不会产生重复节点。
//
// 台账和容器是引擎唯一的共享可变资源，归 Renderer 独占；
// 每个 (版块, 帖子) 视图各建一个实例，随页面切换创建/销毁，
// 不存在跨帖子泄漏的全局状态。
//
// Renderer 不做跨调用的串行化：防止重叠的翻页请求是调用方的职责
// （一个 in-flight 布尔即可）。即使调用方没拦住，台账的幂等性也保证
// 不会重复渲染。
type Renderer struct {
	opts   Options
	viewer Viewer
	now    func() time.Time

	rendered   map[string]*RenderedNode
	roots      []*RenderedNode
	generation uint64
}

// NewRenderer 创建一个渲染器。viewer 只用于决定操作按钮的可见性。
func NewRenderer(viewer Viewer, opts Options) *Renderer {
	return &Renderer{
		opts:     opts.withDefaults(),
		viewer:   viewer,
		now:      time.Now,
		rendered: make(map[string]*RenderedNode),
	}
}

// Generation 返回当前渲染代数。RenderFull 每次递增。
// 调用方应在异步翻页返回后比对代数，丢弃属于旧代的迟到结果。
func (r *Renderer) Generation() uint64 {
	return r.generation
}

// Roots 返回容器中的顶级渲染节点（有序）。
func (r *Renderer) Roots() []*RenderedNode {
	return r.roots
}

// Size 返回已渲染节点总数。
func (r *Renderer) Size() int {
	return len(r.rendered)
}

// HasRendered 报告某ID是否已有渲染节点。
func (r *Renderer) HasRendered(id string) bool {
	_, ok := r.rendered[id]
	return ok
}

// RenderFull 清空容器后深度优先渲染整棵森林（父先于子，子节点按存储顺序）。
// 完整渲染也是乐观节点的对账时机：本地占位节点随容器一起被丢弃，
// 只有服务端确认的数据会留下来——服务端响应才是事实来源。
func (r *Renderer) RenderFull(roots []*Node) {
	r.rendered = make(map[string]*RenderedNode)
	r.roots = nil
	r.generation++

	for _, root := range roots {
		r.renderSubtree(root, nil, 0)
	}
}

// renderSubtree 渲染一个节点及其后代（父先于子，子节点保持存储顺序）。
// 台账中已有该ID时跳过重建，保证单次遍历内的幂等。
func (r *Renderer) renderSubtree(node *Node, parent *RenderedNode, depth int) {
	if _, exists := r.rendered[node.ID]; exists {
		return
	}

	parentID := ""
	if parent != nil {
		parentID = parent.ID
	}

	rn := r.renderOne(node.Comment, parentID, depth)
	r.rendered[rn.ID] = rn
	if parent == nil {
		r.roots = append(r.roots, rn)
	} else {
		parent.Children = append(parent.Children, rn)
	}

	for _, child := range node.Children {
		r.renderSubtree(child, rn, depth+1)
	}
}

// MergePage 把新一页评论合并进现有容器，用于"加载更多"。
//
//   - 已渲染过的ID被直接过滤，无论 MergePage 被重复调用多少次；
//   - 顶级评论（无父、或父节点当前未渲染）追加在现有内容之后，不重排；
//   - 父节点已渲染的回复插入到父节点子列表的最前面（与首屏"最新回复在前"
//     的顺序一致；顶级排序选项并不递归作用于嵌套回复，这一不对称性是
//     沿用既有行为）；
//   - 父节点未渲染的回复按顶级条目渲染，而不是丢弃。
//
// 按输入顺序逐条处理，因此同一页里"父在前、子在后"的组合也能正确嵌套。
func (r *Renderer) MergePage(comments []Comment) {
	for _, c := range comments {
		if c.ID == "" {
			continue
		}
		if _, exists := r.rendered[c.ID]; exists {
			continue
		}
		r.insertOne(c)
	}
}

// InsertLocal 乐观插入：为尚未得到服务端确认的新评论合成一个临时ID，
// 立即按真实评论渲染，并返回临时ID供调用方后续对账。
// 临时节点不会在完整渲染后存活（见 RenderFull 的对账约定）。
func (r *Renderer) InsertLocal(draft Comment) string {
	draft.ID = LocalIDPrefix + uuid.NewString()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = r.now()
	}
	rn := r.insertOne(draft)
	rn.IsLocal = true
	return draft.ID
}

// insertOne 按合并规则插入单条评论，并返回其渲染节点。
func (r *Renderer) insertOne(c Comment) *RenderedNode {
	if parent, ok := r.rendered[c.ParentID]; c.ParentID != "" && ok {
		rn := r.renderOne(c, parent.ID, parent.Depth+1)
		// 新回复插到父节点子列表最前面
		parent.Children = append([]*RenderedNode{rn}, parent.Children...)
		r.rendered[rn.ID] = rn
		return rn
	}

	rn := r.renderOne(c, "", 0)
	r.rendered[rn.ID] = rn
	r.roots = append(r.roots, rn)
	return rn
}

// renderOne 把一条扁平评论变成渲染描述符。
// 软删除的评论一律渲染固定占位符，原始内容不出现在任何输出里；
// 回复入口保留（规则允许继续回复已删除的评论），编辑/删除/举报则全部隐藏。
func (r *Renderer) renderOne(c Comment, parentID string, depth int) *RenderedNode {
	rn := &RenderedNode{
		ID:           c.ID,
		ParentID:     parentID,
		Depth:        depth,
		AuthorID:     c.AuthorID,
		AuthorName:   c.AuthorName,
		AuthorAvatar: c.AuthorAvatar,
		TimeLabel:    relativeTimeLabel(r.now(), c.CreatedAt),
		Edited:       c.EditedAt != nil,
		IsDeleted:    c.IsDeleted,
		LikeCount:    c.LikeCount,
	}

	if c.IsDeleted {
		rn.ContentHTML = constant.DeletedCommentPlaceholder
		rn.Actions = Actions{CanReply: true}
		return rn
	}

	rn.ContentHTML = c.ContentHTML

	isAuthor := r.viewer.ID != "" && r.viewer.ID == c.AuthorID
	rn.Actions = Actions{
		CanReply:  true,
		CanEdit:   isAuthor,
		CanDelete: isAuthor,
		CanReport: !isAuthor,
	}
	return rn
}

// relativeTimeLabel 生成相对时间标签。
func relativeTimeLabel(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "刚刚"
	case d < time.Hour:
		return fmt.Sprintf("%d分钟前", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d小时前", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d天前", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
