package model

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"blog-backend/internal/shared/access"
)

var (
	authorID = uuid.New()

	anonymous  = access.Anonymous
	owner      = access.Principal{UserID: authorID, Caps: access.CapsFor(true, false, false)}
	reader     = access.Principal{UserID: uuid.New(), Caps: access.CapsFor(false, false, false)}
	otherAuth  = access.Principal{UserID: uuid.New(), Caps: access.CapsFor(true, false, false)}
	staff      = access.Principal{UserID: uuid.New(), Caps: access.CapsFor(true, true, false)}
	superuser  = access.Principal{UserID: uuid.New(), Caps: access.CapsFor(true, true, true)}
	staffOwner = access.Principal{UserID: authorID, Caps: access.CapsFor(true, true, false)}
)

func postWith(status Status) *Post {
	id := authorID
	return &Post{ID: uuid.New(), AuthorID: &id, Status: status}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name   string
		viewer access.Principal
		status Status
		want   bool
	}{
		{"published anonymous", anonymous, StatusPublished, true},
		{"published reader", reader, StatusPublished, true},
		{"draft owner", owner, StatusDraft, true},
		{"draft staff", staff, StatusDraft, true},
		{"draft other author", otherAuth, StatusDraft, false},
		{"draft anonymous", anonymous, StatusDraft, false},
		{"archived owner", owner, StatusArchived, true},
		{"archived superuser", superuser, StatusArchived, true},
		{"archived staff", staff, StatusArchived, false},
		{"archived reader", reader, StatusArchived, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.viewer, postWith(tt.status)))
		})
	}
}

func TestCanView_DeletedAuthor(t *testing.T) {
	orphan := &Post{Status: StatusDraft}
	assert.False(t, CanView(owner, orphan))
	assert.True(t, CanView(staff, orphan))

	orphan.Status = StatusArchived
	assert.False(t, CanView(staff, orphan))
	assert.True(t, CanView(superuser, orphan))
}

func TestCreateRules(t *testing.T) {
	assert.False(t, CanCreate(anonymous))
	assert.False(t, CanCreate(reader))
	assert.True(t, CanCreate(owner))

	assert.Equal(t, StatusDraft, InitialStatus(owner))
	assert.Equal(t, StatusPublished, InitialStatus(staff))
}

func TestCanEdit(t *testing.T) {
	nonStaffPost := postWith(StatusPublished)
	staffPost := postWith(StatusPublished)
	staffPost.AuthorIsStaff = true
	orphan := &Post{Status: StatusPublished}

	assert.True(t, CanEdit(owner, nonStaffPost))
	assert.True(t, CanEdit(staff, nonStaffPost))
	assert.True(t, CanEdit(superuser, nonStaffPost))
	assert.False(t, CanEdit(otherAuth, nonStaffPost))
	assert.False(t, CanEdit(anonymous, nonStaffPost))

	assert.False(t, CanEdit(staff, staffPost))
	assert.True(t, CanEdit(staffOwner, staffPost))
	assert.True(t, CanEdit(superuser, staffPost))

	assert.True(t, CanEdit(staff, orphan))
	assert.False(t, CanEdit(owner, orphan))
}

func TestCanArchive(t *testing.T) {
	p := postWith(StatusPublished)
	assert.True(t, CanArchive(owner, p))
	assert.True(t, CanArchive(superuser, p))
	assert.False(t, CanArchive(staff, p))
	assert.False(t, CanArchive(otherAuth, p))
}

func TestLifecycle(t *testing.T) {
	tests := []struct {
		from, to Status
		noop     bool
		ok       bool
	}{
		{StatusDraft, StatusPublished, false, true},
		{StatusDraft, StatusArchived, false, true},
		{StatusPublished, StatusArchived, false, true},
		{StatusPublished, StatusDraft, false, false},
		{StatusArchived, StatusDraft, false, false},
		{StatusArchived, StatusPublished, false, false},
		{StatusArchived, StatusArchived, true, true},
		{StatusPublished, StatusPublished, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			noop, err := CheckTransition(tt.from, tt.to)
			assert.Equal(t, tt.noop, noop)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestPopularityScore(t *testing.T) {
	assert.Equal(t, int64(0), PopularityScore(0, 0))
	assert.Equal(t, int64(37), PopularityScore(7, 3))
	assert.Equal(t, int64(15), PostSummary{Post: Post{ViewCount: 5}, LikesCount: 1}.Score())
}

func TestCoverKeys(t *testing.T) {
	id := uuid.New()
	key := NewCoverKey(id, "png")

	assert.Contains(t, key, CoverFolder(id)+"cover-")
	assert.Equal(t, ".png", key[len(key)-4:])
	assert.NotEqual(t, key, NewCoverKey(id, "png"))

	keys := CoverKeys(key)
	assert.Len(t, keys, 1+len(CoverVariants))
	assert.Equal(t, key, keys[0])
	assert.Equal(t, key[:len(key)-4]+"-thumbnail.jpg", CoverVariantKey(key, "thumbnail"))
}

func TestPostFormValidate(t *testing.T) {
	longBody := "<p>" + strings.Repeat("This body has plenty of readable characters in it. ", 2) + "</p>"

	f := PostForm{Title: "  Hello    world  ", Body: longBody}
	f.Normalize()
	assert.Equal(t, "Hello world", f.Title)
	assert.NoError(t, f.Validate())

	short := PostForm{Title: "Hey", Body: longBody}
	assert.Error(t, short.Validate())

	tagsOnly := PostForm{Title: "Valid title", Body: "<p><b>tiny</b></p>" + "<div></div>"}
	assert.Error(t, tagsOnly.Validate())

	badCategory := PostForm{Title: "Valid title", Body: longBody, Category: "not-a-uuid"}
	assert.Error(t, badCategory.Validate())
}
