package domain

import "context"

// PostQuery describes one page request against the posts collection
type PostQuery struct {
	Filter string // substring match on title; empty = no filter
	Start  int    // zero-based offset
	Limit  int    // page size
}

// PostRepository is the paged query service over the remote posts collection.
// GetPosts returns up to q.Limit posts in the server's stable order (ascending id);
// fewer than q.Limit signals the end of the matching collection.
type PostRepository interface {
	GetPosts(ctx context.Context, q PostQuery) ([]Post, error)
}

// UserRepository provides access to the authors of posts
type UserRepository interface {
	GetUsers(ctx context.Context) ([]User, error)
}
