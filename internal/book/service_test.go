package book

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newMemoryServices(opts ...Option) (*Service, *CommentService, *MemoryRepo) {
	repo := NewMemoryRepo()
	clock := tickingClock()
	opts = append([]Option{WithClock(clock)}, opts...)
	return NewService(repo, opts...), NewCommentService(repo, opts...), repo
}

func TestService_CreateThenRead(t *testing.T) {
	svc, _, _ := newMemoryServices()
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, BookInput{Title: "The Go Programming Language", Price: 3500})
	require.NoError(t, err)
	require.NotZero(t, id)

	view, err := svc.ReadBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	assert.Equal(t, "The Go Programming Language", view.Title)
	assert.Equal(t, 3500, view.Price)
	assert.False(t, view.CreatedAt.IsZero())
	assert.Empty(t, view.Comments)
}

func TestService_CreateBook_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	// no store calls are expected
	_, err := svc.CreateBook(context.Background(), BookInput{Title: " ", Price: 10})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 2)
}

func TestService_CreateBook_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	cause := errors.New("disk full")
	mockRepo.EXPECT().SaveBook(gomock.Any(), gomock.Any()).Return(cause)

	_, err := svc.CreateBook(context.Background(), BookInput{Title: "Go", Price: 100})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
}

func TestService_CreateBook_StampsCreatedAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	svc := NewService(mockRepo, WithClock(func() time.Time { return fixed }))

	mockRepo.EXPECT().SaveBook(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
		assert.Zero(t, b.ID)
		assert.Equal(t, fixed, b.CreatedAt)
		b.ID = 42
		return nil
	})

	id, err := svc.CreateBook(context.Background(), BookInput{Title: "Go", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestService_ReadBook_NotFound(t *testing.T) {
	svc, _, _ := newMemoryServices()
	_, err := svc.ReadBook(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_EditBook(t *testing.T) {
	svc, comments, _ := newMemoryServices()
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, BookInput{Title: "Edit me", Price: 200})
	require.NoError(t, err)
	_, err = comments.CreateComment(ctx, CommentInput{BookID: id, Comment: strPtr("x")})
	require.NoError(t, err)

	view, err := svc.EditBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, BookEditView{ID: id, Title: "Edit me", Price: 200, CreatedAt: view.CreatedAt}, view)

	_, err = svc.EditBook(ctx, id+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateBook_PreservesIdentity(t *testing.T) {
	svc, _, _ := newMemoryServices()
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, BookInput{Title: "Old", Price: 100})
	require.NoError(t, err)
	before, err := svc.ReadBook(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateBook(ctx, id, BookInput{Title: "New", Price: 900}))

	after, err := svc.ReadBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, after.ID)
	assert.Equal(t, "New", after.Title)
	assert.Equal(t, 900, after.Price)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
}

func TestService_UpdateBook_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)
	ctx := context.Background()

	t.Run("validation before store access", func(t *testing.T) {
		err := svc.UpdateBook(ctx, 1, BookInput{Title: "", Price: 100})
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().FindBook(gomock.Any(), int64(5)).Return(Book{}, ErrNotFound)
		err := svc.UpdateBook(ctx, 5, BookInput{Title: "t", Price: 100})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save failure", func(t *testing.T) {
		created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		mockRepo.EXPECT().FindBook(gomock.Any(), int64(6)).
			Return(Book{ID: 6, Title: "a", Price: 100, CreatedAt: created}, nil)
		mockRepo.EXPECT().SaveBook(gomock.Any(), &Book{ID: 6, Title: "b", Price: 150, CreatedAt: created}).
			Return(errors.New("conn reset"))

		err := svc.UpdateBook(ctx, 6, BookInput{Title: "b", Price: 150})
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestService_DeleteBook(t *testing.T) {
	svc, comments, repo := newMemoryServices()
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, BookInput{Title: "Gone", Price: 100})
	require.NoError(t, err)
	_, err = comments.CreateComment(ctx, CommentInput{BookID: id, Comment: strPtr("bye")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBook(ctx, id))

	_, err = svc.ReadBook(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	left, err := repo.FindCommentsByBookID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, left, "comments cascade with their book")

	assert.ErrorIs(t, svc.DeleteBook(ctx, id), ErrNotFound)
}

func TestService_DeleteBook_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	b := Book{ID: 3, Title: "x", Price: 100}
	mockRepo.EXPECT().FindBook(gomock.Any(), int64(3)).Return(b, nil)
	mockRepo.EXPECT().DeleteBook(gomock.Any(), b).Return(errors.New("locked"))

	assert.ErrorIs(t, svc.DeleteBook(context.Background(), 3), ErrPersistence)
}

func TestService_SearchBooks_Defaults(t *testing.T) {
	svc, _, _ := newMemoryServices()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 12; i++ {
		id, err := svc.CreateBook(ctx, BookInput{Title: fmt.Sprintf("Book %02d", i), Price: 100})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := svc.SearchBooks(ctx, SearchParams{})
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i, v := range got {
		assert.Equal(t, ids[i], v.ID, "ascending creation order")
	}

	second, err := svc.SearchBooks(ctx, SearchParams{Page: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, ids[10], second[0].ID)
}

func TestService_SearchBooks_TitleAndDirection(t *testing.T) {
	svc, _, _ := newMemoryServices()
	ctx := context.Background()

	titles := []string{"abc one", "xyz", "the abc", "ABC upper", "zabcz", "abc", "abcd", "nope", "abc again"}
	for _, title := range titles {
		_, err := svc.CreateBook(ctx, BookInput{Title: title, Price: 100})
		require.NoError(t, err)
	}

	got, err := svc.SearchBooks(ctx, SearchParams{
		Title:     "abc",
		Page:      intPtr(1),
		Size:      intPtr(5),
		Direction: dirPtr(Desc),
	})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"abc again", "abcd", "abc", "zabcz", "the abc"}, listTitles(got))
	for _, v := range got {
		assert.Contains(t, v.Title, "abc")
	}
}

func TestService_SearchBooks_HugePageNeverFails(t *testing.T) {
	svc, _, _ := newMemoryServices()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateBook(ctx, BookInput{Title: "t", Price: 100})
		require.NoError(t, err)
	}

	got, err := svc.SearchBooks(ctx, SearchParams{Page: intPtr(3), Size: intPtr(math.MaxInt/2 + 1)})
	require.NoError(t, err)
	assert.Empty(t, got, "page 3 of size 10 is past the end")

	got, err = svc.SearchBooks(ctx, SearchParams{Page: intPtr(math.MaxInt), Size: intPtr(MaxPageSize)})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.SearchBooks(ctx, SearchParams{Size: intPtr(1_000_000_000)})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestService_SearchBooks_CaseInsensitive(t *testing.T) {
	svc, _, _ := newMemoryServices(WithCaseInsensitiveSearch(true))
	ctx := context.Background()

	for _, title := range []string{"Go in Action", "GOPL", "Rust"} {
		_, err := svc.CreateBook(ctx, BookInput{Title: title, Price: 100})
		require.NoError(t, err)
	}

	got, err := svc.SearchBooks(ctx, SearchParams{Title: "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go in Action", "GOPL"}, listTitles(got))
}

func TestService_SearchBooks_PassesResolvedPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	want := PageRequest{Index: 2, Size: 4, SortKey: SortKeyCreatedAt, Direction: Desc}
	mockRepo.EXPECT().
		FindBooks(gomock.Any(), TitleFilter{Contains: "go"}, want).
		Return([]Book{{ID: 2, Title: "b go"}, {ID: 1, Title: "a go"}}, nil)

	got, err := svc.SearchBooks(context.Background(), SearchParams{
		Title: "go", Page: intPtr(3), Size: intPtr(4), Direction: dirPtr(Desc),
	})
	require.NoError(t, err)
	assert.Equal(t, []BookListView{{ID: 2, Title: "b go"}, {ID: 1, Title: "a go"}}, got)
}

func TestService_SearchBooks_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().FindBooks(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

	_, err := svc.SearchBooks(context.Background(), SearchParams{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func listTitles(views []BookListView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}
