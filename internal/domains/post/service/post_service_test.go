package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/events"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
	"blog-backend/internal/shared/access"
	"blog-backend/pkg/cache"
)

var validBody = strings.Repeat("A body long enough to pass the minimum length. ", 2)

func pngBytes(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	_ = png.Encode(buf, img)
	return buf.Bytes()
}

type PostServiceSuite struct {
	suite.Suite
	ctx       context.Context
	repo      *fakePostRepo
	objects   *fakeObjectStorage
	queue     *fakeQueue
	publisher *recordingPublisher
	cache     *cache.MemoryCache
	svc       PostService

	tech      uuid.UUID
	superuser access.Principal
	staff     access.Principal
	author    access.Principal
	other     access.Principal
	reader    access.Principal
}

func (s *PostServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = newFakePostRepo()
	s.objects = newFakeObjectStorage()
	s.queue = &fakeQueue{}
	s.publisher = &recordingPublisher{}
	s.cache = cache.NewMemoryCache()

	s.tech = uuid.New()
	s.repo.categories[s.tech] = "Tech"
	categories := &fakeCategories{byName: map[string]*category.Category{
		"Tech": {ID: s.tech, Name: "Tech"},
	}}

	s.svc = NewPostService(s.repo, categories, s.objects, storage.NewImageProcessor(0), s.queue, s.publisher, s.cache)

	s.superuser = access.Principal{UserID: uuid.New(), Username: "root", Caps: access.CapsFor(true, true, true)}
	s.staff = access.Principal{UserID: uuid.New(), Username: "editor", Caps: access.CapsFor(true, true, false)}
	s.author = access.Principal{UserID: uuid.New(), Username: "writer", Caps: access.CapsFor(true, false, false)}
	s.other = access.Principal{UserID: uuid.New(), Username: "rival", Caps: access.CapsFor(true, false, false)}
	s.reader = access.Principal{UserID: uuid.New(), Username: "reader", Caps: access.CapsFor(false, false, false)}
}

func (s *PostServiceSuite) form(title string) model.PostForm {
	return model.PostForm{Title: title, Body: validBody}
}

func (s *PostServiceSuite) create(actor access.Principal, title string) *model.Post {
	post, err := s.svc.Create(s.ctx, actor, s.form(title), nil)
	s.Require().NoError(err)
	return post
}

func (s *PostServiceSuite) requireDenied(err error, redirect string) {
	var perr *model.PostError
	s.Require().ErrorAs(err, &perr)
	s.ErrorIs(err, model.ErrPermissionDenied)
	s.Equal(redirect, perr.Redirect)
}

// ========================================
// CREATE
// ========================================

func (s *PostServiceSuite) TestCreate_InitialStatus() {
	byStaff := s.create(s.staff, "Staff announcement")
	s.Equal(model.StatusPublished, byStaff.Status)

	byAuthor := s.create(s.author, "First draft post")
	s.Equal(model.StatusDraft, byAuthor.Status)

	history, err := s.repo.History(s.ctx, byAuthor.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Nil(history[0].FromStatus)
	s.Equal(model.StatusDraft, history[0].ToStatus)

	s.Equal([]string{events.PostCreated, events.PostCreated}, s.publisher.types())
}

func (s *PostServiceSuite) TestCreate_NonAuthorRedirectsToApply() {
	_, err := s.svc.Create(s.ctx, s.reader, s.form("Reader tries to post"), nil)
	s.requireDenied(err, "/apply-to-write/")

	_, err = s.svc.Create(s.ctx, access.Anonymous, s.form("Anonymous tries too"), nil)
	s.requireDenied(err, "/apply-to-write/")
	s.Empty(s.repo.posts)
}

func (s *PostServiceSuite) TestCreate_Validation() {
	_, err := s.svc.Create(s.ctx, s.author, model.PostForm{Title: "Hey", Body: "short"}, nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "title")
	s.Contains(err.Error(), "body")
	s.Empty(s.repo.posts)
}

func (s *PostServiceSuite) TestCreate_UnknownCategoryRemovesUpload() {
	form := s.form("Post in a missing category")
	form.Category = uuid.NewString()

	_, err := s.svc.Create(s.ctx, s.author, form, &model.Upload{Filename: "cover.png", Data: pngBytes(40, 30)})
	s.ErrorIs(err, model.ErrCategoryNotFound)
	s.Empty(s.objects.objects)
	s.Empty(s.queue.types())
}

func (s *PostServiceSuite) TestCreate_CoverIsQueued() {
	post, err := s.svc.Create(s.ctx, s.author, s.form("Post with a cover"), &model.Upload{Filename: "cover.png", Data: pngBytes(40, 30)})
	s.Require().NoError(err)

	s.True(strings.HasPrefix(post.ImageKey, model.CoverFolder(post.ID)+"cover-"))
	s.True(strings.HasSuffix(post.ImageKey, ".png"))
	s.Contains(s.objects.objects, post.ImageKey)
	s.Equal([]string{shared.TypeProcessPostCover}, s.queue.types())

	var payload shared.ProcessPostCoverPayload
	s.Require().NoError(json.Unmarshal(s.queue.tasks[0].Payload(), &payload))
	s.Equal(post.ID.String(), payload.PostID)
	s.Equal(post.ImageKey, payload.OriginalKey)
}

func (s *PostServiceSuite) TestCreate_RejectsNonImage() {
	_, err := s.svc.Create(s.ctx, s.author, s.form("Post with a bad cover"), &model.Upload{Filename: "cover.png", Data: []byte("not an image")})
	s.ErrorIs(err, storage.ErrImageNotDecoded)
	s.Empty(s.repo.posts)
}

// ========================================
// VISIBILITY
// ========================================

func (s *PostServiceSuite) TestDetail_DraftVisibility() {
	draft := s.create(s.author, "Unreviewed draft")

	_, err := s.svc.Detail(s.ctx, s.reader, draft.ID)
	s.requireDenied(err, "/")
	_, err = s.svc.Detail(s.ctx, access.Anonymous, draft.ID)
	s.requireDenied(err, "/")
	s.Equal(int64(0), s.repo.posts[draft.ID].ViewCount, "denied visits are not counted")

	own, err := s.svc.Detail(s.ctx, s.author, draft.ID)
	s.Require().NoError(err)
	s.True(own.CanEdit)
	s.True(own.CanArchive)
	s.False(own.CanPublish)

	moderated, err := s.svc.Detail(s.ctx, s.staff, draft.ID)
	s.Require().NoError(err)
	s.True(moderated.CanPublish)
	s.True(moderated.CanEdit)
	s.False(moderated.CanArchive)
}

func (s *PostServiceSuite) TestDetail_CountsEveryViewRecordsFirst() {
	post := s.create(s.staff, "Popular announcement")

	var last *model.PostDetail
	for i := 0; i < 3; i++ {
		detail, err := s.svc.Detail(s.ctx, s.reader, post.ID)
		s.Require().NoError(err)
		last = detail
	}
	_, err := s.svc.Detail(s.ctx, access.Anonymous, post.ID)
	s.Require().NoError(err)

	s.Equal(int64(3), last.Post.ViewCount)
	s.Equal(int64(4), s.repo.posts[post.ID].ViewCount)
	s.Len(s.repo.views[s.reader.UserID], 1)
}

func (s *PostServiceSuite) TestDetail_NotFound() {
	_, err := s.svc.Detail(s.ctx, s.reader, uuid.New())
	var perr *model.PostError
	s.Require().ErrorAs(err, &perr)
	s.Equal(model.ErrCodePostNotFound, perr.Code)
}

func (s *PostServiceSuite) TestDetail_LikedFlag() {
	post := s.create(s.staff, "Liked announcement")
	s.repo.likes[post.ID] = map[uuid.UUID]bool{s.reader.UserID: true}

	detail, err := s.svc.Detail(s.ctx, s.reader, post.ID)
	s.Require().NoError(err)
	s.True(detail.UserHasLiked)
	s.Equal(int64(1), detail.Post.LikesCount)

	anon, err := s.svc.Detail(s.ctx, access.Anonymous, post.ID)
	s.Require().NoError(err)
	s.False(anon.UserHasLiked)
}

func (s *PostServiceSuite) TestHome_PublishedOnly() {
	s.create(s.staff, "Published announcement")
	draft := s.create(s.author, "Hidden draft post")
	archived := s.create(s.staff, "Soon archived post")
	_, err := s.svc.Archive(s.ctx, s.superuser, archived.ID)
	s.Require().NoError(err)

	home, err := s.svc.Home(s.ctx, model.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(home.Posts, 1)
	s.Equal("Published announcement", home.Posts[0].Title)
	s.Equal(1, home.Total)
	for _, p := range home.Popular {
		s.NotEqual(draft.ID, p.ID)
		s.NotEqual(archived.ID, p.ID)
	}
}

func (s *PostServiceSuite) TestHome_Paginates() {
	for i := 0; i < model.PageSize+2; i++ {
		s.create(s.staff, "Announcement number "+string(rune('A'+i)))
	}

	first, err := s.svc.Home(s.ctx, model.ListFilter{Page: 0})
	s.Require().NoError(err)
	s.Equal(1, first.Page)
	s.Len(first.Posts, model.PageSize)
	s.Equal(2, first.TotalPages)

	second, err := s.svc.Home(s.ctx, model.ListFilter{Page: 2})
	s.Require().NoError(err)
	s.Len(second.Posts, 2)
}

func (s *PostServiceSuite) TestHome_HugePageIsEmpty() {
	s.create(s.staff, "Only announcement")

	res, err := s.svc.Home(s.ctx, model.ListFilter{Page: math.MaxInt64})
	s.Require().NoError(err)
	s.Empty(res.Posts)
	s.Equal(1, res.Total)
	s.Less(res.Page, math.MaxInt64)
}

func (s *PostServiceSuite) TestSearchAndCategory() {
	form := s.form("Golang in production")
	form.Category = s.tech.String()
	_, err := s.svc.Create(s.ctx, s.staff, form, nil)
	s.Require().NoError(err)
	s.create(s.staff, "Gardening notes")

	empty, err := s.svc.Search(s.ctx, "   ", 1)
	s.Require().NoError(err)
	s.Empty(empty.Posts)

	found, err := s.svc.Search(s.ctx, "golang", 1)
	s.Require().NoError(err)
	s.Require().Len(found.Posts, 1)
	s.Equal("golang", found.Query)

	byCat, err := s.svc.ByCategory(s.ctx, "tech", 1)
	s.Require().NoError(err)
	s.Require().Len(byCat.Posts, 1)
	s.Equal("Tech", byCat.Posts[0].CategoryName)

	_, err = s.svc.ByCategory(s.ctx, "missing", 1)
	s.ErrorIs(err, category.ErrCategoryNotFound)
}

func (s *PostServiceSuite) TestByAuthor_DraftsForOwnerAndStaff() {
	s.create(s.author, "Author draft post")
	published := s.create(s.author, "Author post to publish")
	_, err := s.svc.Publish(s.ctx, s.staff, published.ID)
	s.Require().NoError(err)

	public, err := s.svc.ByAuthor(s.ctx, s.reader, s.author.UserID, 1)
	s.Require().NoError(err)
	s.Len(public.Posts, 1)

	own, err := s.svc.ByAuthor(s.ctx, s.author, s.author.UserID, 1)
	s.Require().NoError(err)
	s.Len(own.Posts, 2)

	staff, err := s.svc.ByAuthor(s.ctx, s.staff, s.author.UserID, 1)
	s.Require().NoError(err)
	s.Len(staff.Posts, 2)
}

// ========================================
// EDITING
// ========================================

func (s *PostServiceSuite) TestUpdate_Permissions() {
	post := s.create(s.author, "Original title here")
	staffPost := s.create(s.staff, "Staff written post")
	s.repo.posts[staffPost.ID].AuthorIsStaff = true

	_, err := s.svc.Update(s.ctx, s.other, post.ID, s.form("Hijacked title here"), nil)
	s.requireDenied(err, "/post/"+post.ID.String()+"/")

	_, err = s.svc.Update(s.ctx, s.staff, post.ID, s.form("Staff fixed a typo"), nil)
	s.NoError(err)

	other := access.Principal{UserID: uuid.New(), Caps: access.CapsFor(true, true, false)}
	_, err = s.svc.Update(s.ctx, other, staffPost.ID, s.form("Staff editing staff"), nil)
	s.ErrorIs(err, model.ErrPermissionDenied)

	_, err = s.svc.Update(s.ctx, s.superuser, staffPost.ID, s.form("Superuser edits all"), nil)
	s.NoError(err)
}

func (s *PostServiceSuite) TestUpdate_KeepsStatus() {
	post := s.create(s.author, "Draft stays a draft")
	updated, err := s.svc.Update(s.ctx, s.author, post.ID, s.form("Draft with new title"), nil)
	s.Require().NoError(err)
	s.Equal(model.StatusDraft, updated.Status)
	s.Equal("Draft with new title", s.repo.posts[post.ID].Title)
}

func (s *PostServiceSuite) TestUpdate_ReplacedCoverIsDeleted() {
	post, err := s.svc.Create(s.ctx, s.author, s.form("Post with a cover"), &model.Upload{Filename: "a.png", Data: pngBytes(40, 30)})
	s.Require().NoError(err)
	oldKey := post.ImageKey

	updated, err := s.svc.Update(s.ctx, s.author, post.ID, s.form("Post with a new cover"), &model.Upload{Filename: "b.png", Data: pngBytes(50, 30)})
	s.Require().NoError(err)
	s.NotEqual(oldKey, updated.ImageKey)
	s.Empty(updated.ThumbnailURL)

	s.Equal([]string{
		shared.TypeProcessPostCover,
		shared.TypeProcessPostCover,
		shared.TypeDeletePostCover,
	}, s.queue.types())

	var payload shared.DeletePostCoverPayload
	s.Require().NoError(json.Unmarshal(s.queue.tasks[2].Payload(), &payload))
	s.Equal(model.CoverKeys(oldKey), payload.Keys)
}

// ========================================
// LIFECYCLE
// ========================================

func (s *PostServiceSuite) TestArchive_OwnerOrSuperuser() {
	post := s.create(s.author, "Post to be archived")

	_, err := s.svc.Archive(s.ctx, s.staff, post.ID)
	s.requireDenied(err, "/post/"+post.ID.String()+"/")
	_, err = s.svc.Archive(s.ctx, s.other, post.ID)
	s.ErrorIs(err, model.ErrPermissionDenied)

	res, err := s.svc.Archive(s.ctx, s.author, post.ID)
	s.Require().NoError(err)
	s.True(res.Changed)
	s.Equal(model.StatusArchived, res.Post.Status)
	s.Require().NotNil(res.Post.ArchivedBy)
	s.Equal(s.author.UserID, *res.Post.ArchivedBy)

	again, err := s.svc.Archive(s.ctx, s.author, post.ID)
	s.Require().NoError(err)
	s.False(again.Changed)

	history, err := s.svc.History(s.ctx, s.staff, post.ID)
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *PostServiceSuite) TestArchived_VisibleToOwnerAndSuperuser() {
	post := s.create(s.author, "Post to be archived")
	_, err := s.svc.Archive(s.ctx, s.author, post.ID)
	s.Require().NoError(err)

	_, err = s.svc.Detail(s.ctx, s.staff, post.ID)
	s.ErrorIs(err, model.ErrPermissionDenied)
	_, err = s.svc.Detail(s.ctx, s.author, post.ID)
	s.NoError(err)
	_, err = s.svc.Detail(s.ctx, s.superuser, post.ID)
	s.NoError(err)

	listing, err := s.svc.Archived(s.ctx, s.staff, 1)
	s.Require().NoError(err)
	s.Len(listing.Posts, 1)

	_, err = s.svc.Archived(s.ctx, s.author, 1)
	s.ErrorIs(err, model.ErrPermissionDenied)
}

func (s *PostServiceSuite) TestArchive_KeepsCommentsAndLikesForStaff() {
	post := s.create(s.staff, "Well loved announcement")
	s.repo.likes[post.ID] = map[uuid.UUID]bool{s.reader.UserID: true, s.other.UserID: true}
	s.repo.comments[post.ID] = 3

	_, err := s.svc.Archive(s.ctx, s.superuser, post.ID)
	s.Require().NoError(err)

	listing, err := s.svc.Archived(s.ctx, s.staff, 1)
	s.Require().NoError(err)
	s.Require().Len(listing.Posts, 1)
	s.Equal(int64(2), listing.Posts[0].LikesCount)
	s.Equal(int64(3), listing.Posts[0].CommentCount)

	home, err := s.svc.Home(s.ctx, model.ListFilter{})
	s.Require().NoError(err)
	s.Empty(home.Posts)
}

func (s *PostServiceSuite) TestPublish() {
	post := s.create(s.author, "Draft awaiting review")

	_, err := s.svc.Publish(s.ctx, s.author, post.ID)
	s.ErrorIs(err, model.ErrPermissionDenied)

	res, err := s.svc.Publish(s.ctx, s.staff, post.ID)
	s.Require().NoError(err)
	s.True(res.Changed)
	s.Equal(model.StatusPublished, res.Post.Status)
	s.Contains(s.publisher.types(), events.PostPublished)

	again, err := s.svc.Publish(s.ctx, s.staff, post.ID)
	s.Require().NoError(err)
	s.False(again.Changed)
}

func (s *PostServiceSuite) TestPublish_ArchivedIsInvalid() {
	post := s.create(s.author, "Archived before review")
	_, err := s.svc.Archive(s.ctx, s.author, post.ID)
	s.Require().NoError(err)

	_, err = s.svc.Publish(s.ctx, s.staff, post.ID)
	s.ErrorIs(err, model.ErrInvalidTransition)
	s.Equal(model.StatusArchived, s.repo.posts[post.ID].Status)
}

func (s *PostServiceSuite) TestTransition_InvalidatesCategoryCounts() {
	post := s.create(s.author, "Draft awaiting review")
	s.Require().NoError(s.cache.Set(s.ctx, category.ListCacheKey, []string{"stale"}, 0))

	_, err := s.svc.Publish(s.ctx, s.staff, post.ID)
	s.Require().NoError(err)

	exists, err := s.cache.Exists(s.ctx, category.ListCacheKey)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *PostServiceSuite) TestHistory_StaffOnly() {
	post := s.create(s.author, "Draft awaiting review")
	_, err := s.svc.History(s.ctx, s.author, post.ID)
	s.ErrorIs(err, model.ErrPermissionDenied)

	_, err = s.svc.History(s.ctx, s.staff, uuid.New())
	s.ErrorIs(err, model.ErrPostNotFound)
}

// ========================================
// DASHBOARD
// ========================================

func (s *PostServiceSuite) TestDashboard() {
	_, err := s.svc.Dashboard(s.ctx, access.Anonymous)
	s.requireDenied(err, "/login/")

	draft := s.create(s.author, "Author draft post")
	published := s.create(s.staff, "Staff announcement")
	_, err = s.svc.Detail(s.ctx, s.author, published.ID)
	s.Require().NoError(err)
	_, err = s.svc.Detail(s.ctx, s.author, draft.ID)
	s.Require().NoError(err)

	dash, err := s.svc.Dashboard(s.ctx, s.author)
	s.Require().NoError(err)
	s.Len(dash.Posts, 1)
	s.Equal(1, dash.Stats.TotalPosts)
	s.Equal(1, dash.Stats.DraftPosts)
	s.Len(dash.RecentlyViewed, 2)

	readerDash, err := s.svc.Dashboard(s.ctx, s.reader)
	s.Require().NoError(err)
	s.Empty(readerDash.Posts)
	s.Empty(readerDash.RecentlyViewed)
}

func (s *PostServiceSuite) TestDashboard_RecentSkipsArchived() {
	post := s.create(s.staff, "Read then archived")
	_, err := s.svc.Detail(s.ctx, s.reader, post.ID)
	s.Require().NoError(err)
	_, err = s.svc.Archive(s.ctx, s.superuser, post.ID)
	s.Require().NoError(err)

	dash, err := s.svc.Dashboard(s.ctx, s.reader)
	s.Require().NoError(err)
	s.Empty(dash.RecentlyViewed)
}

func TestPostServiceSuite(t *testing.T) {
	suite.Run(t, new(PostServiceSuite))
}
