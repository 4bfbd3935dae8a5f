/*
 * @Description: 评论服务的核心业务逻辑
 * @Author: 苏屿
 * @Date: 2025-09-09 14:02:55
 * @LastEditTime: 2025-12-04 23:18:37
 * @LastEditors: 苏屿
 */
package comment

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
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

// 点赞相关的缓存键前缀。点赞先累积在缓存里，由后台任务批量回写数据库。
const (
	likeUsersKeyPrefix = "comment:like:users:" // Set，成员为点过赞的访客标识
	likeDeltaKeyPrefix = "comment:like:delta:" // 计数器，待回写的增量
)

// Service 评论服务的核心业务逻辑。
type Service struct {
	repo            repository.CommentRepository
	userRepo        repository.UserRepository
	settingSvc      setting.SettingService
	cacheSvc        utility.CacheService
	parserSvc       *parser.Service
	notificationSvc notification.Service
	eventBus        *event.EventBus
}

// NewService 创建一个新的评论服务实例。
func NewService(
	repo repository.CommentRepository,
	userRepo repository.UserRepository,
	settingSvc setting.SettingService,
	cacheSvc utility.CacheService,
	parserSvc *parser.Service,
	notificationSvc notification.Service,
	eventBus *event.EventBus,
) *Service {
	s := &Service{
		repo:            repo,
		userRepo:        userRepo,
		settingSvc:      settingSvc,
		cacheSvc:        cacheSvc,
		parserSvc:       parserSvc,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
	if eventBus != nil {
		eventBus.Subscribe(event.CommentDeleted, s.handleCommentDeleted)
	}
	return s
}

// handleCommentDeleted 清理被删除评论遗留的点赞缓存，
// 避免后台同步任务把增量回写到已经不存在或已删除的行。
func (s *Service) handleCommentDeleted(payload interface{}) {
	dbID, ok := payload.(uint)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	idStr := strconv.FormatUint(uint64(dbID), 10)
	if err := s.cacheSvc.Delete(ctx, likeUsersKeyPrefix+idStr, likeDeltaKeyPrefix+idStr); err != nil {
		log.Printf("警告：清理评论 %d 的点赞缓存失败: %v", dbID, err)
	}
}

// decodeTyped 解码公共ID并校验实体类型。
func decodeTyped(publicID string, wantType uint64) (uint, error) {
	dbID, entityType, err := idgen.DecodePublicID(publicID)
	if err != nil || entityType != wantType {
		return 0, constant.ErrInvalidPublicID
	}
	return dbID, nil
}

// Create 发表一条评论或回复。游客与登录用户都可发表；
// 登录用户的昵称、邮箱与头像以账号资料为准。
func (s *Service) Create(ctx context.Context, topicPublicID, postPublicID string, req *dto.CreateRequest, ip string, claims *auth.CustomClaims) (*dto.Response, error) {
	topicID, err := decodeTyped(topicPublicID, idgen.EntityTypeTopic)
	if err != nil {
		return nil, err
	}
	postID, err := decodeTyped(postPublicID, idgen.EntityTypePost)
	if err != nil {
		return nil, err
	}

	// 单IP速率限制。缓存不可用时放行，不因缓存故障拒绝评论。
	if limit := s.settingSvc.GetInt(constant.KeyCommentLimitPerMinute.String()); limit > 0 {
		rateKey := fmt.Sprintf("comment:rate_limit:%s:%s", ip, time.Now().Format("200601021504"))
		count, err := s.cacheSvc.Increment(ctx, rateKey)
		if err != nil {
			log.Printf("警告：评论速率限制检查失败: %v", err)
		} else {
			if count == 1 {
				s.cacheSvc.Expire(ctx, rateKey, 70*time.Second)
			}
			if count > int64(limit) {
				return nil, constant.ErrCommentRateLimited
			}
		}
	}

	// 回复时校验父评论存在且属于同一帖子。已删除的评论允许被回复。
	var parentDBID *uint
	var parentComment *model.Comment
	if req.ParentID != nil && *req.ParentID != "" {
		pID, err := decodeTyped(*req.ParentID, idgen.EntityTypeComment)
		if err != nil {
			return nil, err
		}
		parentComment, err = s.repo.FindByID(ctx, pID)
		if err != nil {
			return nil, fmt.Errorf("查询父评论失败: %w", err)
		}
		if parentComment == nil {
			return nil, constant.ErrCommentNotFound
		}
		if parentComment.TopicID != topicID || parentComment.PostID != postID {
			return nil, constant.ErrCommentTargetMismatch
		}
		parentDBID = &pID
	}

	safeHTML, err := s.parserSvc.ToHTML(ctx, req.Content)
	if err != nil {
		return nil, fmt.Errorf("markdown内容解析失败: %w", err)
	}

	// 违禁词命中转待审核，不直接拒绝
	status := model.CommentStatusPublished
	if forbiddenWords := s.settingSvc.Get(constant.KeyCommentForbiddenWords.String()); forbiddenWords != "" {
		for _, word := range strings.Split(forbiddenWords, ",") {
			trimmedWord := strings.TrimSpace(word)
			if trimmedWord != "" && strings.Contains(req.Content, trimmedWord) {
				status = model.CommentStatusPending
				break
			}
		}
	}

	nickname := req.Nickname
	email := req.Email
	var avatarURL *string
	var userID *uint
	if claims != nil {
		userDBID, err := decodeTyped(claims.UserID, idgen.EntityTypeUser)
		if err == nil {
			if user, err := s.userRepo.FindByID(ctx, userDBID); err == nil && user != nil {
				uid := user.ID
				userID = &uid
				nickname = user.Nickname
				userEmail := user.Email
				email = &userEmail
				avatarURL = user.AvatarURL
			}
		}
	}

	params := &repository.CreateCommentParams{
		TopicID:     topicID,
		PostID:      postID,
		UserID:      userID,
		ParentID:    parentDBID,
		Nickname:    nickname,
		Email:       email,
		AvatarURL:   avatarURL,
		Content:     req.Content,
		ContentHTML: safeHTML,
		IPAddress:   ip,
		Status:      int(status),
	}

	newComment, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("保存评论失败: %w", err)
	}

	if newComment.IsPublished() {
		s.dispatchNotifications(newComment, parentComment)
	}

	return s.toResponse(newComment), nil
}

// dispatchNotifications 按站点配置异步写入站内通知。
func (s *Service) dispatchNotifications(newComment, parentComment *model.Comment) {
	notifyAdmin := s.settingSvc.GetBool(constant.KeyCommentNotifyAdmin.String())
	notifyReply := s.settingSvc.GetBool(constant.KeyCommentNotifyReply.String())
	if !notifyAdmin && !notifyReply {
		return
	}

	excerpt := parser.PlainTextExcerpt(newComment.ContentHTML, 80)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if parentComment == nil {
			if notifyAdmin {
				if err := s.notificationSvc.NotifyNewComment(ctx, newComment, excerpt); err != nil {
					log.Printf("警告：发送新评论通知失败: %v", err)
				}
			}
			return
		}
		if notifyReply {
			if err := s.notificationSvc.NotifyReply(ctx, newComment, parentComment, excerpt); err != nil {
				log.Printf("警告：发送回复通知失败: %v", err)
			}
		}
	}()
}

// rootLess 报告排序下 a 是否应当排在 b 之前。
// 所有排序键都以数据库ID收尾，保证全序，游标定位不依赖时间戳唯一。
func rootLess(sortKey string, a, b *model.Comment) bool {
	switch sortKey {
	case constant.SortOldest:
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	case constant.SortPopular:
		if a.LikeCount != b.LikeCount {
			return a.LikeCount > b.LikeCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	default: // newest
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	}
}

// normalizeSort 把请求中的排序键规整为受支持的取值。
func (s *Service) normalizeSort(sortKey string) string {
	switch sortKey {
	case constant.SortNewest, constant.SortOldest, constant.SortPopular:
		return sortKey
	case "":
		if def := s.settingSvc.Get(constant.KeyCommentDefaultSort.String()); def != "" {
			return s.normalizeSort(def)
		}
		return constant.SortNewest
	default:
		return constant.SortNewest
	}
}

// ListPage 按游标返回一页评论：pageSize 个顶级评论，以及它们的全部回复。
//
// 实现方式与帖子页的交互模型一致：一次性取出帖子下所有已发布评论，
// 在内存中定位顶级评论、排序、按游标切片，再把选中顶级评论的整棵
// 回复链随页返回。树形结构由客户端组装，服务端只输出扁平记录。
func (s *Service) ListPage(ctx context.Context, topicPublicID, postPublicID, sortKey, cursorToken string, pageSize int) (*dto.ListResponse, error) {
	topicID, err := decodeTyped(topicPublicID, idgen.EntityTypeTopic)
	if err != nil {
		return nil, err
	}
	postID, err := decodeTyped(postPublicID, idgen.EntityTypePost)
	if err != nil {
		return nil, err
	}

	sortKey = s.normalizeSort(sortKey)
	if pageSize <= 0 {
		pageSize = s.settingSvc.GetInt(constant.KeyCommentPageSize.String())
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	allComments, err := s.repo.FindPublishedByPost(ctx, topicID, postID)
	if err != nil {
		return nil, fmt.Errorf("获取帖子评论失败: %w", err)
	}

	// 在内存中划分顶级评论与回复，并把每条回复归到它的顶级祖先下
	commentMap := make(map[uint]*model.Comment, len(allComments))
	var rootComments []*model.Comment
	for _, c := range allComments {
		commentMap[c.ID] = c
		if c.IsTopLevel() {
			rootComments = append(rootComments, c)
		}
	}

	descendantsMap := make(map[uint][]*model.Comment)
	for _, c := range allComments {
		if c.IsTopLevel() {
			continue
		}

		// 沿父链向上找顶级祖先；访问集保证父链成环时也能终止
		ancestor := c
		visited := make(map[uint]bool)
		for ancestor != nil && ancestor.ParentID != nil {
			if visited[ancestor.ID] {
				ancestor = nil
				break
			}
			visited[ancestor.ID] = true

			parent, ok := commentMap[*ancestor.ParentID]
			if !ok {
				ancestor = nil
				break
			}
			ancestor = parent
		}

		if ancestor != nil && ancestor.IsTopLevel() {
			descendantsMap[ancestor.ID] = append(descendantsMap[ancestor.ID], c)
		} else {
			// 父链断裂（父评论待审核或已被后台硬删）或成环：
			// 按顶级评论参与分页，评论不会因此丢失
			rootComments = append(rootComments, c)
		}
	}

	sort.SliceStable(rootComments, func(i, j int) bool {
		return rootLess(sortKey, rootComments[i], rootComments[j])
	})

	// 游标定位：优先按锚点ID精确定位；锚点已不在列表中（被删除、
	// 被转待审核）时按排序位置定位，翻页不中断
	start := 0
	if cursorToken != "" {
		cur, err := decodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
		if cur.Sort != sortKey {
			return nil, constant.ErrInvalidCursor
		}

		anchor := &model.Comment{
			ID:        cur.LastID,
			CreatedAt: time.Unix(0, cur.LastUnix),
			LikeCount: cur.LastLikes,
		}
		start = len(rootComments)
		matched := false
		for i, root := range rootComments {
			if root.ID == cur.LastID {
				start = i + 1
				matched = true
				break
			}
		}
		if !matched {
			for i, root := range rootComments {
				if rootLess(sortKey, anchor, root) {
					start = i
					break
				}
			}
		}
	}

	totalRoots := int64(len(rootComments))
	totalWithChildren := int64(len(allComments))

	end := start + pageSize
	if end > len(rootComments) {
		end = len(rootComments)
	}
	if start >= len(rootComments) {
		return &dto.ListResponse{
			List:              []*dto.Response{},
			Total:             totalRoots,
			TotalWithChildren: totalWithChildren,
			PageSize:          pageSize,
		}, nil
	}
	pagedRoots := rootComments[start:end]

	// 展平：顶级评论在前，它的回复按创建时间升序跟随。
	// 回复的父评论一定在同一页里先于它出现（父评论总是更早创建）。
	var list []*dto.Response
	for _, root := range pagedRoots {
		list = append(list, s.toResponse(root))

		descendants := descendantsMap[root.ID]
		sort.SliceStable(descendants, func(i, j int) bool {
			if !descendants[i].CreatedAt.Equal(descendants[j].CreatedAt) {
				return descendants[i].CreatedAt.Before(descendants[j].CreatedAt)
			}
			return descendants[i].ID < descendants[j].ID
		})
		for _, child := range descendants {
			list = append(list, s.toResponse(child))
		}
	}

	var nextCursor string
	if end < len(rootComments) {
		last := pagedRoots[len(pagedRoots)-1]
		nextCursor = encodeCursor(pageCursor{
			Sort:      sortKey,
			LastID:    last.ID,
			LastUnix:  last.CreatedAt.UnixNano(),
			LastLikes: last.LikeCount,
		})
	}

	return &dto.ListResponse{
		List:              list,
		Total:             totalRoots,
		TotalWithChildren: totalWithChildren,
		PageSize:          pageSize,
		NextCursor:        nextCursor,
	}, nil
}

// ListLatest 获取全站最新的已发布评论列表（分页，扁平）。
func (s *Service) ListLatest(ctx context.Context, page, pageSize int) (*dto.LatestListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	comments, total, err := s.repo.FindLatestPublished(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("获取最新评论列表失败: %w", err)
	}

	list := make([]*dto.Response, len(comments))
	for i, c := range comments {
		list[i] = s.toResponse(c)
	}
	return &dto.LatestListResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Edit 编辑评论内容。只有作者本人可以编辑，已删除的评论不可编辑。
func (s *Service) Edit(ctx context.Context, publicID, content string, claims *auth.CustomClaims) (*dto.Response, error) {
	if claims == nil {
		return nil, constant.ErrUnauthorized
	}
	dbID, err := decodeTyped(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, err
	}
	comment, err := s.repo.FindByID(ctx, dbID)
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	if comment == nil {
		return nil, constant.ErrCommentNotFound
	}
	if comment.IsDeleted {
		return nil, constant.ErrCommentDeleted
	}

	userDBID, err := decodeTyped(claims.UserID, idgen.EntityTypeUser)
	if err != nil || !comment.IsAuthoredBy(userDBID) {
		return nil, constant.ErrNotCommentAuthor
	}

	safeHTML, err := s.parserSvc.ToHTML(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("markdown内容解析失败: %w", err)
	}
	if err := s.repo.UpdateContent(ctx, dbID, content, safeHTML); err != nil {
		return nil, fmt.Errorf("更新评论失败: %w", err)
	}

	updated, err := s.repo.FindByID(ctx, dbID)
	if err != nil {
		return nil, fmt.Errorf("读取更新后的评论失败: %w", err)
	}
	if updated == nil {
		return nil, constant.ErrCommentNotFound
	}
	return s.toResponse(updated), nil
}

// Delete 软删除评论：内容改为占位符，节点保留（它的回复可能仍然引用它）。
// 作者本人或管理员可以删除。
func (s *Service) Delete(ctx context.Context, publicID string, claims *auth.CustomClaims) error {
	if claims == nil {
		return constant.ErrUnauthorized
	}
	dbID, err := decodeTyped(publicID, idgen.EntityTypeComment)
	if err != nil {
		return err
	}
	comment, err := s.repo.FindByID(ctx, dbID)
	if err != nil {
		return fmt.Errorf("查询评论失败: %w", err)
	}
	if comment == nil {
		return constant.ErrCommentNotFound
	}
	if comment.IsDeleted {
		return nil // 幂等：重复删除不报错
	}

	userDBID, err := decodeTyped(claims.UserID, idgen.EntityTypeUser)
	if err != nil {
		return constant.ErrUnauthorized
	}
	if !comment.IsAuthoredBy(userDBID) && !s.isAdminClaims(claims) {
		return constant.ErrNotCommentAuthor
	}

	if err := s.repo.SoftDelete(ctx, dbID); err != nil {
		return fmt.Errorf("删除评论失败: %w", err)
	}
	s.eventBus.Publish(event.CommentDeleted, dbID)
	return nil
}

// isAdminClaims 判断令牌是否属于管理员组。
func (s *Service) isAdminClaims(claims *auth.CustomClaims) bool {
	groupID, err := decodeTyped(claims.UserGroupID, idgen.EntityTypeUserGroup)
	return err == nil && groupID == model.UserGroupAdmin
}

// Like 为评论点赞。visitorKey 标识访客（登录用户为公共ID，游客为IP），
// 同一访客重复点赞不累加。增量先累积在缓存中，由后台任务批量回写。
func (s *Service) Like(ctx context.Context, publicID, visitorKey string) (*dto.LikeResponse, error) {
	dbID, err := decodeTyped(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, err
	}
	comment, err := s.repo.FindByID(ctx, dbID)
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	if comment == nil {
		return nil, constant.ErrCommentNotFound
	}

	pendingDelta := func() int {
		val, err := s.cacheSvc.Get(ctx, likeDeltaKeyPrefix+strconv.FormatUint(uint64(dbID), 10))
		if err != nil || val == "" {
			return 0
		}
		n, _ := strconv.Atoi(val)
		return n
	}

	added, err := s.cacheSvc.SAdd(ctx, likeUsersKeyPrefix+strconv.FormatUint(uint64(dbID), 10), visitorKey)
	if err != nil {
		return nil, fmt.Errorf("点赞失败: %w", err)
	}
	if added == 0 {
		return &dto.LikeResponse{LikeCount: comment.LikeCount + pendingDelta(), Liked: false}, nil
	}

	if _, err := s.cacheSvc.Increment(ctx, likeDeltaKeyPrefix+strconv.FormatUint(uint64(dbID), 10)); err != nil {
		return nil, fmt.Errorf("点赞失败: %w", err)
	}
	return &dto.LikeResponse{LikeCount: comment.LikeCount + pendingDelta(), Liked: true}, nil
}

// SyncLikeCounts 将缓存中累积的点赞增量批量回写到数据库。
// 由后台定时任务调用。
func (s *Service) SyncLikeCounts(ctx context.Context) error {
	keys, err := s.cacheSvc.Scan(ctx, likeDeltaKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("扫描点赞增量键失败: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	deltas, err := s.cacheSvc.GetAndDeleteMany(ctx, keys)
	if err != nil {
		return fmt.Errorf("读取点赞增量失败: %w", err)
	}

	var synced int
	for key, delta := range deltas {
		if delta == 0 {
			continue
		}
		idStr := strings.TrimPrefix(key, likeDeltaKeyPrefix)
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			log.Printf("警告：无法从键 '%s' 解析评论ID: %v", key, err)
			continue
		}
		if _, err := s.repo.IncrementLikeCount(ctx, uint(id), delta); err != nil {
			log.Printf("警告：回写评论 %d 的点赞增量失败: %v", id, err)
			continue
		}
		synced++
	}
	if synced > 0 {
		log.Printf("[点赞同步] 已回写 %d 条评论的点赞增量。", synced)
	}
	return nil
}

// --- 管理员方法 ---

// AdminList 后台分页查询评论，支持按昵称、内容和状态过滤。
func (s *Service) AdminList(ctx context.Context, req *dto.AdminListRequest) (*dto.LatestListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	comments, total, err := s.repo.FindWithConditions(ctx, repository.AdminListParams{
		Page:     page,
		PageSize: pageSize,
		Nickname: req.Nickname,
		Content:  req.Content,
		Status:   req.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("后台查询评论失败: %w", err)
	}

	list := make([]*dto.Response, len(comments))
	for i, c := range comments {
		list[i] = s.toResponse(c)
	}
	return &dto.LatestListResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// AdminUpdateStatus 审核评论：发布或退回待审核。
func (s *Service) AdminUpdateStatus(ctx context.Context, publicID string, status int) (*dto.Response, error) {
	dbID, err := decodeTyped(publicID, idgen.EntityTypeComment)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateStatus(ctx, dbID, status)
	if err != nil {
		if errors.Is(err, constant.ErrNotFound) {
			return nil, constant.ErrCommentNotFound
		}
		return nil, fmt.Errorf("更新评论状态失败: %w", err)
	}
	return s.toResponse(updated), nil
}

// AdminDelete 按公共ID列表批量硬删除评论，返回删除数量。
func (s *Service) AdminDelete(ctx context.Context, publicIDs []string) (int, error) {
	dbIDs, err := idgen.DecodePublicIDBatch(publicIDs)
	if err != nil {
		return 0, constant.ErrInvalidPublicID
	}
	deleted, err := s.repo.DeleteByIDs(ctx, dbIDs)
	if err != nil {
		return 0, fmt.Errorf("批量删除评论失败: %w", err)
	}
	for _, id := range dbIDs {
		s.eventBus.Publish(event.CommentDeleted, id)
	}
	return deleted, nil
}

// toResponse 将领域模型转换为对外的扁平评论记录。
// 已删除评论的内容在服务端就替换为占位符，原文不出站。
func (s *Service) toResponse(c *model.Comment) *dto.Response {
	publicID, err := idgen.GeneratePublicID(c.ID, idgen.EntityTypeComment)
	if err != nil {
		log.Printf("警告：生成评论公共ID失败（数据库ID: %d）: %v", c.ID, err)
	}

	resp := &dto.Response{
		ID:        publicID,
		Nickname:  c.Author.Nickname,
		AvatarURL: c.Author.AvatarURL,
		LikeCount: c.LikeCount,
		Status:    int(c.Status),
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		EditedAt:  c.EditedAt,
	}

	if c.ParentID != nil {
		if parentPublicID, err := idgen.GeneratePublicID(*c.ParentID, idgen.EntityTypeComment); err == nil {
			resp.ParentID = &parentPublicID
		}
	}
	if c.UserID != nil {
		if userPublicID, err := idgen.GeneratePublicID(*c.UserID, idgen.EntityTypeUser); err == nil {
			resp.UserID = &userPublicID
		}
	}
	if c.Author.Email != nil && *c.Author.Email != "" {
		resp.EmailMD5 = fmt.Sprintf("%x", md5.Sum([]byte(strings.ToLower(*c.Author.Email))))
	}

	if c.IsDeleted {
		resp.ContentHTML = constant.DeletedCommentPlaceholder
	} else {
		resp.ContentHTML = c.ContentHTML
	}
	return resp
}
