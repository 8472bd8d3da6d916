package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const defaultImageContentType = "image/jpeg"

// handleProxyImage fetches a remote image server side so the front end can
// display images whose host blocks hot-linking. Failures are reported as a
// JSON error body with status 200.
func (s *Server) handleProxyImage(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		s.proxyError(c, "url parameter is required")
		return
	}

	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		s.proxyError(c, fmt.Sprintf("invalid image url: %q", target))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		s.proxyError(c, fmt.Sprintf("failed to create request: %v", err))
		return
	}
	req.Header.Set("User-Agent", s.deps.Proxy.UserAgent)
	if s.deps.Proxy.Referer != "" {
		req.Header.Set("Referer", s.deps.Proxy.Referer)
	}
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.proxyError(c, fmt.Sprintf("failed to fetch image: %v", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.proxyError(c, fmt.Sprintf("failed to fetch image: upstream returned status %d", resp.StatusCode))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultImageContentType
	}

	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, nil)
}

func (s *Server) proxyError(c *gin.Context, msg string) {
	s.log.WarnContext(c.Request.Context(), "Image proxy failed", "url", c.Query("url"), "error", msg)
	c.JSON(http.StatusOK, gin.H{"error": msg})
}
