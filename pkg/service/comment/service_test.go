package comment

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/studylink-hub/studylink-app/internal/pkg/auth"
	"github.com/studylink-hub/studylink-app/internal/pkg/event"
	"github.com/studylink-hub/studylink-app/pkg/constant"
	"github.com/studylink-hub/studylink-app/pkg/domain/model"
	"github.com/studylink-hub/studylink-app/pkg/domain/repository"
	"github.com/studylink-hub/studylink-app/pkg/handler/comment/dto"
	"github.com/studylink-hub/studylink-app/pkg/idgen"
	"github.com/studylink-hub/studylink-app/pkg/service/notification"
	"github.com/studylink-hub/studylink-app/pkg/service/parser"
	"github.com/studylink-hub/studylink-app/pkg/service/setting"
	"github.com/studylink-hub/studylink-app/pkg/service/utility"
)

// fakeCommentRepo 是内存版的评论仓储。
// 与生产实现保持同一契约：FindByID 找不到时返回 (nil, nil) 而不是错误。
type fakeCommentRepo struct {
	comments  map[uint]*model.Comment
	published []*model.Comment
}

func newFakeCommentRepo(comments ...*model.Comment) *fakeCommentRepo {
	repo := &fakeCommentRepo{comments: make(map[uint]*model.Comment)}
	for _, c := range comments {
		repo.comments[c.ID] = c
		if c.IsPublished() {
			repo.published = append(repo.published, c)
		}
	}
	return repo
}

func (r *fakeCommentRepo) Create(ctx context.Context, params *repository.CreateCommentParams) (*model.Comment, error) {
	id := uint(len(r.comments) + 1)
	c := &model.Comment{
		ID:       id,
		TopicID:  params.TopicID,
		PostID:   params.PostID,
		UserID:   params.UserID,
		ParentID: params.ParentID,
		Author: model.Author{
			Nickname:  params.Nickname,
			Email:     params.Email,
			AvatarURL: params.AvatarURL,
			IP:        params.IPAddress,
		},
		Content:     params.Content,
		ContentHTML: params.ContentHTML,
		Status:      model.CommentStatus(params.Status),
		CreatedAt:   time.Now(),
	}
	r.comments[id] = c
	return c, nil
}

func (r *fakeCommentRepo) FindPublishedByPost(ctx context.Context, topicID, postID uint) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, c := range r.published {
		if c.TopicID == topicID && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	return r.comments[id], nil
}

func (r *fakeCommentRepo) FindManyByIDs(ctx context.Context, ids []uint) ([]*model.Comment, error) {
	var out []*model.Comment
	for _, id := range ids {
		if c, ok := r.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) FindLatestPublished(ctx context.Context, page, pageSize int) ([]*model.Comment, int64, error) {
	return r.published, int64(len(r.published)), nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, id uint, content, contentHTML string) error {
	c, ok := r.comments[id]
	if !ok {
		return constant.ErrCommentNotFound
	}
	c.Content = content
	c.ContentHTML = contentHTML
	now := time.Now()
	c.EditedAt = &now
	return nil
}

func (r *fakeCommentRepo) SoftDelete(ctx context.Context, id uint) error {
	c, ok := r.comments[id]
	if !ok {
		return constant.ErrCommentNotFound
	}
	c.IsDeleted = true
	c.ContentHTML = constant.DeletedCommentPlaceholder
	return nil
}

func (r *fakeCommentRepo) IncrementLikeCount(ctx context.Context, id uint, delta int) (int, error) {
	c, ok := r.comments[id]
	if !ok {
		return 0, constant.ErrCommentNotFound
	}
	c.LikeCount += delta
	return c.LikeCount, nil
}

func (r *fakeCommentRepo) FindWithConditions(ctx context.Context, params repository.AdminListParams) ([]*model.Comment, int64, error) {
	return nil, 0, nil
}

func (r *fakeCommentRepo) UpdateStatus(ctx context.Context, id uint, status int) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, constant.ErrNotFound
	}
	c.Status = model.CommentStatus(status)
	return c, nil
}

func (r *fakeCommentRepo) DeleteByIDs(ctx context.Context, ids []uint) (int, error) {
	var deleted int
	for _, id := range ids {
		if _, ok := r.comments[id]; ok {
			delete(r.comments, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return user, nil
}
func (fakeUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error)  { return nil, nil }
func (fakeUserRepo) Update(ctx context.Context, user *model.User) error          { return nil }
func (fakeUserRepo) FindByEmail(ctx context.Context, e string) (*model.User, error) {
	return nil, nil
}
func (fakeUserRepo) FindManyByIDs(ctx context.Context, ids []uint) ([]*model.User, error) {
	return nil, nil
}
func (fakeUserRepo) FindByGroupID(ctx context.Context, groupID uint) ([]*model.User, error) {
	return nil, nil
}

type fakeSettings map[string]string

func (f fakeSettings) LoadAllSettings(ctx context.Context) error { return nil }
func (f fakeSettings) Get(key string) string                     { return f[key] }
func (f fakeSettings) GetBool(key string) bool                   { return f[key] == "true" }
func (f fakeSettings) GetInt(key string) int {
	n, _ := strconv.Atoi(f[key])
	return n
}
func (f fakeSettings) GetSiteConfig() map[string]string { return map[string]string{} }
func (f fakeSettings) UpdateSettings(ctx context.Context, m map[string]string) error {
	return nil
}
func (f fakeSettings) IsPublicSetting(key string) bool { return false }

var _ setting.SettingService = fakeSettings{}

type fakeNotifier struct{}

func (fakeNotifier) NotifyNewComment(ctx context.Context, c *model.Comment, excerpt string) error {
	return nil
}
func (fakeNotifier) NotifyReply(ctx context.Context, c, parent *model.Comment, excerpt string) error {
	return nil
}
func (fakeNotifier) ListByRecipient(ctx context.Context, userID uint, page, pageSize int) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}
func (fakeNotifier) CountUnread(ctx context.Context, userID uint) (int64, error) { return 0, nil }
func (fakeNotifier) MarkRead(ctx context.Context, userID uint, ids []uint) error { return nil }

var _ notification.Service = fakeNotifier{}

// newTestService 组装一个只有仓储被替换为内存实现的评论服务。
func newTestService(t *testing.T, repo repository.CommentRepository) (*Service, utility.CacheService) {
	t.Helper()
	if err := idgen.InitSqidsEncoderWithSeed(""); err != nil {
		t.Fatalf("初始化ID编码器失败: %v", err)
	}

	settings := fakeSettings{}
	bus := event.NewEventBus()
	t.Cleanup(bus.Shutdown)

	cacheSvc := utility.NewMemoryCacheService()
	parserSvc := parser.NewService(settings, bus)
	svc := NewService(repo, fakeUserRepo{}, settings, cacheSvc, parserSvc, fakeNotifier{}, bus)
	return svc, cacheSvc
}

func mustPublicID(t *testing.T, dbID uint, entityType uint64) string {
	t.Helper()
	id, err := idgen.GeneratePublicID(dbID, entityType)
	if err != nil {
		t.Fatalf("生成公共ID失败: %v", err)
	}
	return id
}

func mustDBID(t *testing.T, publicID string) uint {
	t.Helper()
	id, _, err := idgen.DecodePublicID(publicID)
	if err != nil {
		t.Fatalf("解码公共ID %q 失败: %v", publicID, err)
	}
	return id
}

func studentClaims(t *testing.T, userID uint) *auth.CustomClaims {
	t.Helper()
	return &auth.CustomClaims{
		UserID:      mustPublicID(t, userID, idgen.EntityTypeUser),
		UserGroupID: mustPublicID(t, model.UserGroupStudent, idgen.EntityTypeUserGroup),
	}
}

// --- 不存在的评论：格式合法的公共ID必须得到 404 级错误，而不是崩溃 ---

func TestDelete_CommentNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeCommentRepo())

	err := svc.Delete(context.Background(), mustPublicID(t, 99, idgen.EntityTypeComment), studentClaims(t, 1))
	if !errors.Is(err, constant.ErrCommentNotFound) {
		t.Errorf("Delete 不存在的评论返回 %v, 期望 ErrCommentNotFound", err)
	}
}

func TestEdit_CommentNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeCommentRepo())

	_, err := svc.Edit(context.Background(), mustPublicID(t, 99, idgen.EntityTypeComment), "新内容", studentClaims(t, 1))
	if !errors.Is(err, constant.ErrCommentNotFound) {
		t.Errorf("Edit 不存在的评论返回 %v, 期望 ErrCommentNotFound", err)
	}
}

func TestLike_CommentNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeCommentRepo())

	_, err := svc.Like(context.Background(), mustPublicID(t, 99, idgen.EntityTypeComment), "203.0.113.7")
	if !errors.Is(err, constant.ErrCommentNotFound) {
		t.Errorf("Like 不存在的评论返回 %v, 期望 ErrCommentNotFound", err)
	}
}

func TestCreate_ParentNotFound(t *testing.T) {
	svc, _ := newTestService(t, newFakeCommentRepo())

	parentID := mustPublicID(t, 99, idgen.EntityTypeComment)
	req := &dto.CreateRequest{
		ParentID: &parentID,
		Nickname: "访客",
		Content:  "回复一条不存在的评论",
	}
	_, err := svc.Create(
		context.Background(),
		mustPublicID(t, 1, idgen.EntityTypeTopic),
		mustPublicID(t, 1, idgen.EntityTypePost),
		req, "203.0.113.7", nil,
	)
	if !errors.Is(err, constant.ErrCommentNotFound) {
		t.Errorf("回复不存在的父评论返回 %v, 期望 ErrCommentNotFound", err)
	}
}

// --- 删除评论后点赞缓存必须被清理，防止增量回写到已删除的行 ---

func TestDelete_PurgesLikeCache(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	target := &model.Comment{
		ID: 7, TopicID: 1, PostID: 1, UserID: uintPtr(1),
		Status: model.CommentStatusPublished, CreatedAt: t0,
	}
	svc, cacheSvc := newTestService(t, newFakeCommentRepo(target))
	ctx := context.Background()

	if _, err := svc.Like(ctx, mustPublicID(t, 7, idgen.EntityTypeComment), "203.0.113.7"); err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if val, err := cacheSvc.Get(ctx, likeDeltaKeyPrefix+"7"); err != nil || val != "1" {
		t.Fatalf("点赞后增量键 = (%q, %v), 期望 (1, nil)", val, err)
	}

	if err := svc.Delete(ctx, mustPublicID(t, 7, idgen.EntityTypeComment), studentClaims(t, 1)); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	// 清理由事件总线的worker异步执行
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		val, err := cacheSvc.Get(ctx, likeDeltaKeyPrefix+"7")
		if err == nil && val == "" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("删除评论后点赞增量键未被清理")
}

// --- ListPage 的游标翻页 ---

func pagedComments(t0 time.Time) []*model.Comment {
	var out []*model.Comment
	for i := uint(1); i <= 5; i++ {
		out = append(out, &model.Comment{
			ID: i, TopicID: 1, PostID: 1,
			Author:    model.Author{Nickname: "同学"},
			Status:    model.CommentStatusPublished,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		})
	}
	// 一条挂在 5 号下的回复，应随它所在的页一起返回
	parent := uint(5)
	out = append(out, &model.Comment{
		ID: 6, TopicID: 1, PostID: 1, ParentID: &parent,
		Author:    model.Author{Nickname: "回复者"},
		Status:    model.CommentStatusPublished,
		CreatedAt: t0.Add(10 * time.Minute),
	})
	return out
}

func listIDs(t *testing.T, resp *dto.ListResponse) []uint {
	t.Helper()
	ids := make([]uint, len(resp.List))
	for i, item := range resp.List {
		ids[i] = mustDBID(t, item.ID)
	}
	return ids
}

func equalIDs(a, b []uint) bool {
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

func TestListPage_CursorPagination(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCommentRepo(pagedComments(t0)...)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	topic := mustPublicID(t, 1, idgen.EntityTypeTopic)
	post := mustPublicID(t, 1, idgen.EntityTypePost)

	// 第一页：最新的两条顶级评论，5 号带着它的回复 6
	page1, err := svc.ListPage(ctx, topic, post, constant.SortNewest, "", 2)
	if err != nil {
		t.Fatalf("第一页查询失败: %v", err)
	}
	if got := listIDs(t, page1); !equalIDs(got, []uint{5, 6, 4}) {
		t.Errorf("第一页 = %v, 期望 [5 6 4]", got)
	}
	if page1.Total != 5 {
		t.Errorf("顶级评论总数 = %d, 期望 5", page1.Total)
	}
	if page1.NextCursor == "" {
		t.Fatal("第一页未返回下一页游标")
	}

	// 第二页接着游标走
	page2, err := svc.ListPage(ctx, topic, post, constant.SortNewest, page1.NextCursor, 2)
	if err != nil {
		t.Fatalf("第二页查询失败: %v", err)
	}
	if got := listIDs(t, page2); !equalIDs(got, []uint{3, 2}) {
		t.Errorf("第二页 = %v, 期望 [3 2]", got)
	}

	// 最后一页没有游标
	page3, err := svc.ListPage(ctx, topic, post, constant.SortNewest, page2.NextCursor, 2)
	if err != nil {
		t.Fatalf("第三页查询失败: %v", err)
	}
	if got := listIDs(t, page3); !equalIDs(got, []uint{1}) {
		t.Errorf("第三页 = %v, 期望 [1]", got)
	}
	if page3.NextCursor != "" {
		t.Errorf("最后一页仍返回游标: %q", page3.NextCursor)
	}
}

// 锚点评论在两次翻页之间被删除时，按排序位置继续，翻页不中断。
func TestListPage_AnchorRemovedBetweenPages(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCommentRepo(pagedComments(t0)...)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	topic := mustPublicID(t, 1, idgen.EntityTypeTopic)
	post := mustPublicID(t, 1, idgen.EntityTypePost)

	page1, err := svc.ListPage(ctx, topic, post, constant.SortNewest, "", 2)
	if err != nil {
		t.Fatalf("第一页查询失败: %v", err)
	}

	// 第一页的锚点是 4 号；把它从已发布列表中拿掉（转待审核/被硬删）
	var kept []*model.Comment
	for _, c := range repo.published {
		if c.ID != 4 {
			kept = append(kept, c)
		}
	}
	repo.published = kept

	page2, err := svc.ListPage(ctx, topic, post, constant.SortNewest, page1.NextCursor, 2)
	if err != nil {
		t.Fatalf("锚点缺失后的翻页失败: %v", err)
	}
	if got := listIDs(t, page2); !equalIDs(got, []uint{3, 2}) {
		t.Errorf("锚点缺失后的第二页 = %v, 期望 [3 2]", got)
	}
}

func TestListPage_CursorSortMismatch(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCommentRepo(pagedComments(t0)...)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	topic := mustPublicID(t, 1, idgen.EntityTypeTopic)
	post := mustPublicID(t, 1, idgen.EntityTypePost)

	page1, err := svc.ListPage(ctx, topic, post, constant.SortNewest, "", 2)
	if err != nil {
		t.Fatalf("第一页查询失败: %v", err)
	}

	if _, err := svc.ListPage(ctx, topic, post, constant.SortOldest, page1.NextCursor, 2); !errors.Is(err, constant.ErrInvalidCursor) {
		t.Errorf("换排序后复用游标返回 %v, 期望 ErrInvalidCursor", err)
	}
}

// 游标锚在最后一条顶级评论上时返回空页，不报错。
func TestListPage_EmptyTail(t *testing.T) {
	t0 := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeCommentRepo(pagedComments(t0)...)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	topic := mustPublicID(t, 1, idgen.EntityTypeTopic)
	post := mustPublicID(t, 1, idgen.EntityTypePost)

	page, err := svc.ListPage(ctx, topic, post, constant.SortNewest, "", 5)
	if err != nil {
		t.Fatalf("整页查询失败: %v", err)
	}
	if page.NextCursor != "" {
		// 5 条顶级评论恰好一页取完
		t.Fatalf("取完整页后仍返回游标: %q", page.NextCursor)
	}

	tail := encodeCursor(pageCursor{
		Sort:     constant.SortNewest,
		LastID:   1,
		LastUnix: t0.Add(time.Minute).UnixNano(),
	})
	empty, err := svc.ListPage(ctx, topic, post, constant.SortNewest, tail, 2)
	if err != nil {
		t.Fatalf("尾部翻页失败: %v", err)
	}
	if len(empty.List) != 0 {
		t.Errorf("尾部页应为空, 得到 %d 条", len(empty.List))
	}
	if empty.Total != 5 {
		t.Errorf("尾部页总数 = %d, 期望 5", empty.Total)
	}
	if empty.NextCursor != "" {
		t.Errorf("尾部页仍返回游标: %q", empty.NextCursor)
	}
}

func uintPtr(v uint) *uint { return &v }
