package commenttree

import (
	"strings"
	"testing"
	"time"
)

func newTestRenderer(viewerID string) *Renderer {
	r := NewRenderer(Viewer{ID: viewerID}, Options{})
	r.now = func() time.Time {
		return time.Date(2025, 11, 1, 13, 0, 0, 0, time.UTC)
	}
	return r
}

// collectIDs 深度优先收集容器内全部节点ID
func collectIDs(roots []*RenderedNode) []string {
	var ids []string
	var walk func(nodes []*RenderedNode)
	walk = func(nodes []*RenderedNode) {
		for _, n := range nodes {
			ids = append(ids, n.ID)
			walk(n.Children)
		}
	}
	walk(roots)
	return ids
}

func TestRenderFull_OrderAndStructure(t *testing.T) {
	r := newTestRenderer("")

	roots := BuildTree([]Comment{
		mkComment("1", ""),
		mkComment("2", "1"),
		mkComment("3", "2"),
		mkComment("4", ""),
	}, Options{})
	r.RenderFull(roots)

	got := collectIDs(r.Roots())
	want := []string{"1", "2", "3", "4"} // 父先于子，根按输入顺序
	if !equalStrings(got, want) {
		t.Errorf("渲染顺序 = %v, 期望 %v", got, want)
	}

	if r.Size() != 4 {
		t.Errorf("台账大小 = %d, 期望 4", r.Size())
	}

	// 深度标注
	n3, ok := findNode(r.Roots(), "3")
	if !ok || n3.Depth != 2 {
		t.Errorf("节点 3 深度 = %+v, 期望 2", n3)
	}
}

// 幂等合并：同一页合并两次，渲染出的ID集合与合并一次完全相同。
func TestMergePage_Idempotent(t *testing.T) {
	page := []Comment{
		mkComment("1", ""),
		mkComment("2", "1"),
		mkComment("3", ""),
	}

	r := newTestRenderer("")
	r.MergePage(page)
	once := collectIDs(r.Roots())

	r.MergePage(page)
	twice := collectIDs(r.Roots())

	if !equalStrings(once, twice) {
		t.Errorf("重复合并改变了渲染结果: %v -> %v", once, twice)
	}
	if r.Size() != 3 {
		t.Errorf("台账大小 = %d, 期望 3", r.Size())
	}
}

// 回复插入已渲染的父节点：新回复出现在父节点子列表最前面。
func TestMergePage_ReplyInsertedAtFront(t *testing.T) {
	r := newTestRenderer("")

	r.RenderFull(BuildTree([]Comment{
		mkComment("P", ""),
		mkComment("old", "P"),
	}, Options{}))

	r.MergePage([]Comment{mkComment("R", "P")})

	parent, ok := findNode(r.Roots(), "P")
	if !ok {
		t.Fatal("父节点 P 未渲染")
	}
	if len(parent.Children) != 2 {
		t.Fatalf("P 的子节点数 = %d, 期望 2", len(parent.Children))
	}
	if parent.Children[0].ID != "R" {
		t.Errorf("新回复位置 = %s, 期望插在最前面", parent.Children[0].ID)
	}
	if parent.Children[1].ID != "old" {
		t.Errorf("原有回复被移动了: %v", collectIDs(parent.Children))
	}
}

// 父节点未渲染的回复按顶级条目渲染，不丢弃。
func TestMergePage_UnrenderedParentFallsBackToRoot(t *testing.T) {
	r := newTestRenderer("")
	r.MergePage([]Comment{mkComment("R", "ghost")})

	if len(r.Roots()) != 1 || r.Roots()[0].ID != "R" {
		t.Errorf("孤儿回复未按顶级渲染: %v", collectIDs(r.Roots()))
	}
}

// 同一页内父子同现：父先到则子正常嵌套。
func TestMergePage_ParentAndChildInSamePage(t *testing.T) {
	r := newTestRenderer("")
	r.MergePage([]Comment{
		mkComment("P", ""),
		mkComment("C", "P"),
	})

	parent, ok := findNode(r.Roots(), "P")
	if !ok {
		t.Fatal("父节点 P 未渲染")
	}
	if len(parent.Children) != 1 || parent.Children[0].ID != "C" {
		t.Errorf("子节点未嵌套到父节点下: %v", collectIDs(r.Roots()))
	}
}

// 顶级评论追加在现有内容之后，不重排。
func TestMergePage_AppendsAfterExisting(t *testing.T) {
	r := newTestRenderer("")
	r.MergePage([]Comment{mkComment("1", ""), mkComment("2", "")})
	r.MergePage([]Comment{mkComment("3", ""), mkComment("1", "")}) // "1" 重叠

	got := collectIDs(r.Roots())
	want := []string{"1", "2", "3"}
	if !equalStrings(got, want) {
		t.Errorf("合并后顺序 = %v, 期望 %v", got, want)
	}
}

// 删除占位：已删除评论的任何输出都不包含原始内容。
func TestRender_DeletionPlaceholder(t *testing.T) {
	secret := "这是不应该出现的原文"
	c := mkComment("del", "")
	c.ContentHTML = secret
	c.IsDeleted = true

	r := newTestRenderer("u1")
	r.RenderFull(BuildTree([]Comment{c}, Options{}))

	node := r.Roots()[0]
	if strings.Contains(node.ContentHTML, secret) {
		t.Errorf("已删除评论泄漏了原始内容: %q", node.ContentHTML)
	}
	if node.ContentHTML == "" {
		t.Error("已删除评论应渲染固定占位符而不是空内容")
	}

	// 已删除评论仍可回复，但编辑/删除/举报全部隐藏
	if !node.Actions.CanReply {
		t.Error("已删除评论应保留回复入口")
	}
	if node.Actions.CanEdit || node.Actions.CanDelete || node.Actions.CanReport {
		t.Errorf("已删除评论不应暴露操作: %+v", node.Actions)
	}
}

// 操作可见性：作者可编辑/删除，非作者可举报。
func TestRender_ActionVisibility(t *testing.T) {
	mine := mkComment("mine", "")
	mine.AuthorID = "viewer"
	other := mkComment("other", "")
	other.AuthorID = "someone-else"

	r := newTestRenderer("viewer")
	r.RenderFull(BuildTree([]Comment{mine, other}, Options{}))

	myNode, _ := findNode(r.Roots(), "mine")
	if !myNode.Actions.CanEdit || !myNode.Actions.CanDelete || myNode.Actions.CanReport {
		t.Errorf("作者操作不正确: %+v", myNode.Actions)
	}

	otherNode, _ := findNode(r.Roots(), "other")
	if otherNode.Actions.CanEdit || otherNode.Actions.CanDelete || !otherNode.Actions.CanReport {
		t.Errorf("非作者操作不正确: %+v", otherNode.Actions)
	}
}

// 排序切换触发完整重建：不复用任何旧的渲染节点，代数递增。
func TestRenderFull_ResetDiscardsOldNodes(t *testing.T) {
	comments := []Comment{mkComment("1", ""), mkComment("2", "1")}

	r := newTestRenderer("")
	r.RenderFull(BuildTree(comments, Options{}))
	gen1 := r.Generation()
	old1, _ := findNode(r.Roots(), "1")

	r.RenderFull(BuildTree(comments, Options{}))
	gen2 := r.Generation()
	new1, _ := findNode(r.Roots(), "1")

	if gen2 != gen1+1 {
		t.Errorf("代数 = %d -> %d, 期望递增 1", gen1, gen2)
	}
	if old1 == new1 {
		t.Error("完整重建复用了旧的渲染节点")
	}
}

// 乐观插入：临时ID带专用前缀、立即渲染、完整重建后被丢弃。
func TestInsertLocal(t *testing.T) {
	r := newTestRenderer("viewer")
	r.RenderFull(BuildTree([]Comment{mkComment("P", "")}, Options{}))

	draft := Comment{
		ParentID:    "P",
		AuthorID:    "viewer",
		AuthorName:  "我",
		ContentHTML: "<p>乐观内容</p>",
	}
	localID := r.InsertLocal(draft)

	if !strings.HasPrefix(localID, LocalIDPrefix) {
		t.Errorf("临时ID = %q, 期望以 %q 开头", localID, LocalIDPrefix)
	}

	node, ok := findNode(r.Roots(), localID)
	if !ok {
		t.Fatal("乐观节点未被渲染")
	}
	if !node.IsLocal {
		t.Error("乐观节点未标记 IsLocal")
	}
	if node.ParentID != "P" {
		t.Errorf("乐观回复的父节点 = %q, 期望 P", node.ParentID)
	}

	// 对账：完整重建只保留服务端确认的数据
	r.RenderFull(BuildTree([]Comment{mkComment("P", ""), mkComment("S", "P")}, Options{}))
	if _, stillThere := findNode(r.Roots(), localID); stillThere {
		t.Error("乐观节点在完整重建后仍然存在")
	}
	if !r.HasRendered("S") {
		t.Error("服务端确认的评论未渲染")
	}
}

// 两个乐观插入得到不同的临时ID
func TestInsertLocal_UniqueIDs(t *testing.T) {
	r := newTestRenderer("viewer")
	id1 := r.InsertLocal(Comment{AuthorID: "viewer", ContentHTML: "a"})
	id2 := r.InsertLocal(Comment{AuthorID: "viewer", ContentHTML: "b"})
	if id1 == id2 {
		t.Errorf("两次乐观插入得到相同ID: %s", id1)
	}
}

func findNode(roots []*RenderedNode, id string) (*RenderedNode, bool) {
	var found *RenderedNode
	var walk func(nodes []*RenderedNode)
	walk = func(nodes []*RenderedNode) {
		for _, n := range nodes {
			if n.ID == id {
				found = n
				return
			}
			walk(n.Children)
		}
	}
	walk(roots)
	return found, found != nil
}
