package blog

import (
	"context"
	"fmt"

	"github.com/devfromfinland/backend-blog/internal/model"
)

// Stats はブログ全体の集計統計。
type Stats struct {
	Count      int
	TotalLikes int
	Favorite   *FavoriteEntry
	MostBlogs  *AuthorBlogCount
	MostLikes  *AuthorLikes
}

// Stats は全ブログに対する集計統計を返す。認可不要。
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	withOwner, err := s.blogRepo.ListWithOwner(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs for stats: %w", err)
	}

	blogs := make([]model.Blog, len(withOwner))
	for i := range withOwner {
		blogs[i] = withOwner[i].Blog
	}

	return &Stats{
		Count:      len(blogs),
		TotalLikes: TotalLikes(blogs),
		Favorite:   FavoriteBlog(blogs),
		MostBlogs:  MostBlogs(blogs),
		MostLikes:  MostLikes(blogs),
	}, nil
}

// FavoriteEntry は最多いいねブログの要約。
type FavoriteEntry struct {
	Title  string
	Author string
	Likes  int
}

// AuthorBlogCount は著者ごとのブログ数の要約。
type AuthorBlogCount struct {
	Author string
	Blogs  int
}

// AuthorLikes は最多いいねブログの著者といいね数の要約。
type AuthorLikes struct {
	Author string
	Likes  int
}

// TotalLikes は全ブログのいいね数の合計を返す。
func TotalLikes(blogs []model.Blog) int {
	total := 0
	for _, b := range blogs {
		total += b.Likes
	}
	return total
}

// FavoriteBlog は最もいいね数の多いブログの要約を返す。
// 空のリストに対してはnilを返す。同数の場合は先に現れたものを選ぶ。
func FavoriteBlog(blogs []model.Blog) *FavoriteEntry {
	if len(blogs) == 0 {
		return nil
	}

	fav := blogs[0]
	for _, b := range blogs[1:] {
		if b.Likes > fav.Likes {
			fav = b
		}
	}

	return &FavoriteEntry{
		Title:  fav.Title,
		Author: fav.Author,
		Likes:  fav.Likes,
	}
}

// MostBlogs は最も多くのブログを持つ著者とその本数を返す。
// 空のリストに対してはnilを返す。
func MostBlogs(blogs []model.Blog) *AuthorBlogCount {
	if len(blogs) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := []string{}
	for _, b := range blogs {
		if _, seen := counts[b.Author]; !seen {
			order = append(order, b.Author)
		}
		counts[b.Author]++
	}

	top := order[0]
	for _, author := range order[1:] {
		if counts[author] > counts[top] {
			top = author
		}
	}

	return &AuthorBlogCount{Author: top, Blogs: counts[top]}
}

// MostLikes は最もいいね数の多い単一ブログの著者といいね数を返す。
// 空のリストに対してはnilを返す。
func MostLikes(blogs []model.Blog) *AuthorLikes {
	fav := FavoriteBlog(blogs)
	if fav == nil {
		return nil
	}
	return &AuthorLikes{Author: fav.Author, Likes: fav.Likes}
}
