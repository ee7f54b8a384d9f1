package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecowear/marketplace/internal/database"
	"github.com/ecowear/marketplace/internal/models"
	"github.com/google/uuid"
)

const blogColumns = `id, title, description, image, category, author, link,
		read_time, featured, created_at`

type NewBlogPost struct {
	Title       string
	Description string
	Image       string
	Category    string
	Author      string
	Link        string
	ReadTime    string
	Featured    bool
}

func scanBlogPost(row interface{ Scan(...any) error }) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Description,
		&post.Image,
		&post.Category,
		&post.Author,
		&post.Link,
		&post.ReadTime,
		&post.Featured,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func CreateBlogPost(ctx context.Context, db *sql.DB, req NewBlogPost) (*models.BlogPost, error) {
	if req.Author == "" {
		req.Author = "EcoWear Team"
	}
	if req.ReadTime == "" {
		req.ReadTime = "5 min read"
	}

	query := `
		INSERT INTO blog_posts (id, title, description, image, category, author,
			link, read_time, featured, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING ` + blogColumns

	row := db.QueryRowContext(ctx, query,
		uuid.NewString(), req.Title, req.Description, req.Image, req.Category,
		req.Author, req.Link, req.ReadTime, req.Featured)

	post, err := scanBlogPost(row)
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	return post, nil
}

func ListBlogPosts(ctx context.Context, db *sql.DB, featuredOnly bool) ([]models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if featuredOnly {
		query += ` WHERE featured = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []models.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return posts, nil
}

type BlogPostUpdate struct {
	Title       string
	Description string
	Image       string
	Category    string
	Author      string
	Link        string
	ReadTime    string
	Featured    *bool
}

func UpdateBlogPost(ctx context.Context, db *sql.DB, id string, upd BlogPostUpdate) (*models.BlogPost, error) {
	post, err := scanBlogPost(db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}

	if upd.Title != "" {
		post.Title = upd.Title
	}
	if upd.Description != "" {
		post.Description = upd.Description
	}
	if upd.Image != "" {
		post.Image = upd.Image
	}
	if upd.Category != "" {
		post.Category = upd.Category
	}
	if upd.Author != "" {
		post.Author = upd.Author
	}
	if upd.Link != "" {
		post.Link = upd.Link
	}
	if upd.ReadTime != "" {
		post.ReadTime = upd.ReadTime
	}
	if upd.Featured != nil {
		post.Featured = *upd.Featured
	}

	query := `
		UPDATE blog_posts
		SET title = $1, description = $2, image = $3, category = $4, author = $5,
		    link = $6, read_time = $7, featured = $8
		WHERE id = $9
		RETURNING ` + blogColumns

	updated, err := scanBlogPost(db.QueryRowContext(ctx, query,
		post.Title, post.Description, post.Image, post.Category, post.Author,
		post.Link, post.ReadTime, post.Featured, id))
	if err != nil {
		return nil, fmt.Errorf("update blog post: %w", err)
	}

	return updated, nil
}

func DeleteBlogPost(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrBlogPostNotFound
	}

	return nil
}
