/*
 * @Description: 评论树组装（纯数据结构，不产生任何展示副作用）
 * @Author: 苏屿
 * @Date: 2025-09-08 14:21:37
 * @LastEditTime: 2025-12-02 22:18:54
 * @LastEditors: 苏屿
 */
package commenttree

import "time"

// 默认参数。帖子页每页 20 条顶级评论；树深度上限 50，
// 用于防御畸形或成环的父链，并非产品特性。
const (
	DefaultPageSize = 20
	DefaultMaxDepth = 50
)

// Comment 是与后端交换的扁平评论记录（公共字符串ID）。
type Comment struct {
	ID           string     `json:"id"`
	ParentID     string     `json:"parent_id,omitempty"` // 空字符串表示顶级评论
	AuthorID     string     `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	AuthorAvatar string     `json:"author_avatar,omitempty"`
	ContentHTML  string     `json:"content_html"`
	CreatedAt    time.Time  `json:"created_at"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
	IsDeleted    bool       `json:"is_deleted"`
	LikeCount    int        `json:"like_count"`
}

// Node 是引擎内部的树节点：一条评论加上有序的子节点序列。
// 每次完整构建都会产生全新的节点；增量合并只做追加，从不原地重排。
type Node struct {
	Comment
	Children []*Node
}

// Options 控制树组装与渲染的行为。零值字段使用默认值。
type Options struct {
	// PageSize 顶级评论每页数量
	PageSize int
	// MaxDepth 从根到叶的最大链长；超出的评论降级为顶级兄弟节点而不是丢弃
	MaxDepth int
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// BuildTree 将扁平的评论列表组装为森林。
//
// 规则：
//   - 按 ID 建立索引；缺失 ID 的记录无法渲染，直接跳过；重复 ID 后者覆盖前者。
//   - ParentID 为空、或指向索引中不存在的 ID 的评论成为根节点。
//   - 父节点存在时，沿 ParentID 链向上计步，步数不超过 MaxDepth 则挂到
//     直接父节点下（兄弟间保持输入顺序）；否则该评论降级为根节点。
//     计步器保证了即使父链成环也一定终止，评论永远不会被丢弃。
//   - 根节点顺序 = 评论在输入中首次出现的顺序。
//
// 该函数是纯函数：只产出树值，不触碰任何共享状态。
func BuildTree(comments []Comment, opts Options) []*Node {
	opts = opts.withDefaults()

	index := make(map[string]*Node, len(comments))
	order := make([]string, 0, len(comments))

	for _, c := range comments {
		if c.ID == "" {
			// 缺失ID的记录不可渲染，跳过整条而不是让整批失败
			continue
		}
		if _, seen := index[c.ID]; !seen {
			order = append(order, c.ID)
		}
		index[c.ID] = &Node{Comment: c}
	}

	var roots []*Node
	for _, id := range order {
		node := index[id]

		parent, ok := index[node.ParentID]
		if node.ParentID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}

		// 从直接父节点向上走，数出这条评论将要落到的深度。
		// 走完（链到头）且步数在上限内才允许挂载；否则降级为根。
		steps := 1
		cur := parent
		exceeded := false
		for cur.ParentID != "" {
			next, found := index[cur.ParentID]
			if !found {
				break
			}
			steps++
			if steps >= opts.MaxDepth {
				exceeded = true
				break
			}
			cur = next
		}

		if exceeded {
			roots = append(roots, node)
		} else {
			parent.Children = append(parent.Children, node)
		}
	}

	return roots
}

// CountNodes 返回森林中的节点总数（含所有层级的子节点）。
func CountNodes(roots []*Node) int {
	total := 0
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			total++
			walk(n.Children)
		}
	}
	walk(roots)
	return total
}
