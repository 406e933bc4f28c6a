package replay

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var gameIDRe = regexp.MustCompile(`/game/([a-f0-9-]+)`)

const userAgent = "snekfang-replay/1.0"

// Discover fetches a player stats page and returns the game ids it links to,
// in page order without duplicates.
func Discover(ctx context.Context, client *http.Client, statsURL string) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var gameIDs []string
	seen := make(map[string]bool)
	doc.Find("a[href*='/game/']").Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}

		matches := gameIDRe.FindStringSubmatch(href)
		if len(matches) >= 2 && !seen[matches[1]] {
			seen[matches[1]] = true
			gameIDs = append(gameIDs, matches[1])
		}
	})

	return gameIDs, nil
}
