package commenttree

import (
	"fmt"
	"testing"
	"time"
)

// mkComment 构造测试用的扁平评论记录
func mkComment(id, parentID string) Comment {
	return Comment{
		ID:          id,
		ParentID:    parentID,
		AuthorID:    "u1",
		AuthorName:  "测试用户",
		ContentHTML: "<p>内容-" + id + "</p>",
		CreatedAt:   time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildTree(t *testing.T) {
	tests := []struct {
		name      string
		input     []Comment
		wantRoots []string // 期望的根节点ID顺序
		wantTotal int      // 期望的森林节点总数
	}{
		{
			name:      "空输入",
			input:     nil,
			wantRoots: nil,
			wantTotal: 0,
		},
		{
			name: "基础嵌套与孤儿降级",
			input: []Comment{
				mkComment("1", ""),
				mkComment("2", "1"),
				mkComment("3", "99"), // 父节点不在索引中，降级为根
			},
			wantRoots: []string{"1", "3"},
			wantTotal: 3,
		},
		{
			name: "子评论先于父评论出现",
			input: []Comment{
				mkComment("2", "1"),
				mkComment("1", ""),
			},
			wantRoots: []string{"1"},
			wantTotal: 2,
		},
		{
			name: "兄弟节点保持输入顺序",
			input: []Comment{
				mkComment("1", ""),
				mkComment("a", "1"),
				mkComment("b", "1"),
				mkComment("c", "1"),
			},
			wantRoots: []string{"1"},
			wantTotal: 4,
		},
		{
			name: "缺失ID的记录被跳过",
			input: []Comment{
				mkComment("1", ""),
				mkComment("", "1"),
			},
			wantRoots: []string{"1"},
			wantTotal: 1,
		},
		{
			name: "重复ID后者覆盖前者",
			input: []Comment{
				mkComment("1", ""),
				mkComment("1", ""),
				mkComment("2", "1"),
			},
			wantRoots: []string{"1"},
			wantTotal: 2,
		},
		{
			name: "自引用评论成为根",
			input: []Comment{
				mkComment("1", "1"),
			},
			wantRoots: []string{"1"},
			wantTotal: 1,
		},
		{
			name: "双节点环：两者都出现且至少一个为根",
			input: []Comment{
				mkComment("A", "B"),
				mkComment("B", "A"),
			},
			wantRoots: []string{"A", "B"},
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := BuildTree(tt.input, Options{})

			if got := CountNodes(roots); got != tt.wantTotal {
				t.Errorf("节点总数 = %d, 期望 %d", got, tt.wantTotal)
			}

			var rootIDs []string
			for _, r := range roots {
				rootIDs = append(rootIDs, r.ID)
			}
			if !equalStrings(rootIDs, tt.wantRoots) {
				t.Errorf("根节点 = %v, 期望 %v", rootIDs, tt.wantRoots)
			}
		})
	}
}

// 规格场景：两个根，"1" 带一个子节点 "2"，"3" 因父节点缺失而成为根。
func TestBuildTree_EndToEnd(t *testing.T) {
	roots := BuildTree([]Comment{
		mkComment("1", ""),
		mkComment("2", "1"),
		mkComment("3", "99"),
	}, Options{})

	if len(roots) != 2 {
		t.Fatalf("根节点数 = %d, 期望 2", len(roots))
	}
	if roots[0].ID != "1" || len(roots[0].Children) != 1 || roots[0].Children[0].ID != "2" {
		t.Errorf("根 1 的结构不正确: %+v", roots[0])
	}
	if roots[1].ID != "3" {
		t.Errorf("根 2 = %s, 期望 3", roots[1].ID)
	}
	if got := CountNodes(roots); got != 3 {
		t.Errorf("节点总数 = %d, 期望 3", got)
	}
}

// 不丢失任何评论：任意输入下，森林节点总数等于输入中有效且去重后的评论数。
func TestBuildTree_NoOrphanLoss(t *testing.T) {
	var input []Comment
	// 正常链 + 孤儿 + 环 + 重复 + 缺失ID
	input = append(input, mkComment("r", ""))
	for i := 0; i < 10; i++ {
		input = append(input, mkComment(fmt.Sprintf("c%d", i), "r"))
	}
	input = append(input, mkComment("orphan", "nope"))
	input = append(input, mkComment("x", "y"), mkComment("y", "x"))
	input = append(input, mkComment("r", "")) // 重复
	input = append(input, mkComment("", "r")) // 缺失ID

	roots := BuildTree(input, Options{})

	wantTotal := 14 // r + c0..c9 + orphan + x + y
	if got := CountNodes(roots); got != wantTotal {
		t.Errorf("节点总数 = %d, 期望 %d", got, wantTotal)
	}
}

// 深度上限降级：60 条链式评论中，超过上限的节点降级为根而不是被丢弃。
func TestBuildTree_DepthCapFallback(t *testing.T) {
	const chainLen = 60

	input := []Comment{mkComment("n0", "")}
	for i := 1; i < chainLen; i++ {
		input = append(input, mkComment(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i-1)))
	}

	roots := BuildTree(input, Options{}) // 默认上限 50

	if got := CountNodes(roots); got != chainLen {
		t.Errorf("节点总数 = %d, 期望 %d（不允许丢弃）", got, chainLen)
	}
	if len(roots) < 2 {
		t.Errorf("根节点数 = %d, 期望链尾部分节点降级为根", len(roots))
	}

	// 实际挂载深度不得超过上限
	maxDepth := 0
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if depth > maxDepth {
				maxDepth = depth
			}
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	if maxDepth >= DefaultMaxDepth {
		t.Errorf("最大挂载深度 = %d, 超过上限 %d", maxDepth, DefaultMaxDepth)
	}
}

// 自定义深度上限生效
func TestBuildTree_CustomMaxDepth(t *testing.T) {
	input := []Comment{
		mkComment("1", ""),
		mkComment("2", "1"),
		mkComment("3", "2"),
		mkComment("4", "3"),
	}

	roots := BuildTree(input, Options{MaxDepth: 3})

	if got := CountNodes(roots); got != 4 {
		t.Errorf("节点总数 = %d, 期望 4", got)
	}
	// 第 4 条链深超限，应降级为根
	if len(roots) != 2 {
		t.Errorf("根节点数 = %d, 期望 2", len(roots))
	}
}

// 环状父链在有界时间内终止（计步器兜底）
func TestBuildTree_CycleTerminates(t *testing.T) {
	done := make(chan []*Node, 1)
	go func() {
		done <- BuildTree([]Comment{
			mkComment("A", "B"),
			mkComment("B", "C"),
			mkComment("C", "A"),
		}, Options{})
	}()

	select {
	case roots := <-done:
		if got := CountNodes(roots); got != 3 {
			t.Errorf("节点总数 = %d, 期望 3", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BuildTree 在环状输入上未终止")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
