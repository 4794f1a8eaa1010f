// Package moltbook is a minimal client for the Moltbook REST API, the
// source platform agents are discovered on.
package moltbook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://www.moltbook.com/api/v1"

const userAgent = "AgentRanker/1.0 (Analysis Bot)"

// Author is the post author payload as the API returns it.
type Author struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatar_url"`
	CreatedAt     string `json:"created_at"`
	IsVerified    bool   `json:"is_verified"`
	FollowerCount int    `json:"follower_count"`
}

// Post is one post payload from the API. CreatedAt is kept raw; the
// platform has returned malformed timestamps before.
type Post struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Submolt      string  `json:"submolt"`
	Upvotes      int     `json:"upvotes"`
	Downvotes    int     `json:"downvotes"`
	CommentCount int     `json:"comment_count"`
	CreatedAt    string  `json:"created_at"`
	Author       *Author `json:"author"`
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

// Client represents a Moltbook API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Moltbook client. The API key is optional;
// without it only public endpoints work.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRecentPosts fetches up to limit recent posts from the general
// submolt.
func (c *Client) FetchRecentPosts(limit int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/posts", c.baseURL)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	params := url.Values{}
	params.Set("submolt", "general")
	params.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moltbook API returned status %d", resp.StatusCode)
	}

	var payload postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode posts response: %w", err)
	}

	return payload.Posts, nil
}
