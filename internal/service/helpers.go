package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maheshrc27/autoposter/internal/models"
)

// mediaRef prefers the remote URL over the local path.
func mediaRef(post *models.Post) string {
	if post.MediaPathRemote != "" {
		return post.MediaPathRemote
	}
	return post.MediaPath
}

// imageURL returns a URL reachable by the platform for the post media.
func imageURL(files FileService, post *models.Post) string {
	ref := mediaRef(post)
	if ref == "" {
		return ""
	}
	return files.PublicURL(ref)
}

func linksBlock(links []models.Link) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("%s: %s", l.Description, l.URL))
	}
	return strings.Join(lines, "\n")
}

// combineCaption joins the root caption, the caption and links of every
// child in threads, the root links and the hashtags not already written in
// the text, one block per paragraph.
func combineCaption(root *models.Post, threads []*models.Post, links func(*models.Post) []models.Link, hashtags []string) string {
	var blocks []string
	text := strings.ToLower(root.MetaContent)

	if c := strings.TrimSpace(root.MetaContent); c != "" {
		blocks = append(blocks, c)
	}
	for _, t := range threads {
		if c := strings.TrimSpace(t.MetaContent); c != "" {
			blocks = append(blocks, c)
			text += " " + strings.ToLower(c)
		}
		if l := links(t); len(l) > 0 {
			blocks = append(blocks, linksBlock(l))
		}
	}
	if l := links(root); len(l) > 0 {
		blocks = append(blocks, linksBlock(l))
	}

	seen := map[string]bool{}
	var tags []string
	for _, tag := range hashtags {
		tag = "#" + strings.ToLower(strings.TrimLeft(tag, "#"))
		if tag == "#" || seen[tag] || strings.Contains(text, tag) {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if len(tags) > 0 {
		blocks = append(blocks, strings.Join(tags, " "))
	}

	return strings.Join(blocks, "\n\n")
}

// postJSON sends payload as JSON and decodes a 2xx response into out.
func postJSON(ctx context.Context, client *http.Client, url string, payload any, headers map[string]string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return doRequest(client, req, out)
}

func doRequest(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}
	return nil
}
